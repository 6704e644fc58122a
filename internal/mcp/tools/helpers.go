// Package tools contains MCP tool implementations for agentschema.
package tools

// MIME type constant.
const MimeJSON = "application/json"

// SchemaURI returns the resource URI of a stored group's schema.
func SchemaURI(extractionID, key string) string {
	return "agentschema://schema/" + extractionID + "/" + key
}

// CoverageURI returns the resource URI of a stored extraction's coverage report.
func CoverageURI(extractionID string) string {
	return "agentschema://coverage/" + extractionID
}
