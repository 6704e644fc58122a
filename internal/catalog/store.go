// Package catalog keeps in-memory extractions for reference by later tool calls.
package catalog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/internal/logscan"
	"github.com/usestring/agentschema/internal/samples"
)

// DefaultMaxExtractions bounds how many extractions a store keeps.
const DefaultMaxExtractions = 16

// Extraction is one scan and build held in memory.
type Extraction struct {
	ID         string
	InputDir   string
	Files      []logscan.File
	Stats      logscan.FileStats
	Collection *samples.Collection
	Results    []extract.Result
	CreatedAt  time.Time

	byKey map[string]*extract.Result
}

// Result returns the built result for a key such as "claude/system".
func (e *Extraction) Result(key string) (*extract.Result, bool) {
	r, ok := e.byKey[key]
	return r, ok
}

// ExtractionStore holds recent extractions. The oldest is evicted once the
// store is full.
type ExtractionStore struct {
	mu          sync.RWMutex
	max         int
	extractions map[string]*Extraction
	order       []string
}

// NewExtractionStore creates a store keeping at most max extractions.
func NewExtractionStore(max int) *ExtractionStore {
	if max <= 0 {
		max = DefaultMaxExtractions
	}
	return &ExtractionStore{
		max:         max,
		extractions: make(map[string]*Extraction),
	}
}

// Store records an extraction and returns it with its assigned ID.
func (s *ExtractionStore) Store(inputDir string, files []logscan.File, stats logscan.FileStats, coll *samples.Collection, results []extract.Result) *Extraction {
	e := &Extraction{
		ID:         uuid.NewString(),
		InputDir:   inputDir,
		Files:      files,
		Stats:      stats,
		Collection: coll,
		Results:    results,
		CreatedAt:  time.Now(),
		byKey:      make(map[string]*extract.Result, len(results)),
	}
	for i := range results {
		e.byKey[results[i].Key()] = &results[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.extractions[e.ID] = e
	s.order = append(s.order, e.ID)
	for len(s.order) > s.max {
		delete(s.extractions, s.order[0])
		s.order = s.order[1:]
	}
	return e
}

// Get retrieves an extraction by ID.
func (s *ExtractionStore) Get(id string) (*Extraction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.extractions[id]
	return e, ok
}

// Len returns the number of stored extractions.
func (s *ExtractionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.extractions)
}
