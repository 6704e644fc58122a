package mcpsrv

import (
	"github.com/usestring/agentschema/internal/catalog"
	"github.com/usestring/agentschema/internal/config"
	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/verify"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config      *config.Config
	Profiles    *profile.Set
	Verifier    *verify.Verifier
	Extractions *catalog.ExtractionStore
}
