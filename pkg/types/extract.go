package types

// ScanStats counts the log lines seen by an extraction.
type ScanStats struct {
	FilesScanned int `json:"files_scanned"`
	TotalLines   int `json:"total_lines"`
	StdoutLines  int `json:"stdout_lines"`
	JSONParsed   int `json:"json_parsed"`
	JSONFailed   int `json:"json_failed"`
}

// GroupSummary describes the samples collected under one grouping key.
type GroupSummary struct {
	Key         string   `json:"key"`      // e.g. "claude/tool_input.Bash"
	Agent       string   `json:"agent"`    // Agent name
	Category    string   `json:"category"` // event, content_block or tool_input
	Name        string   `json:"name"`     // Event kind, block type or tool name
	Observed    int      `json:"observed"` // Every occurrence, including dropped samples
	Stored      int      `json:"stored"`   // Samples kept for inference
	SourceFiles []string `json:"source_files,omitempty"`
}

// SchemaEntry pairs a grouping key with its inferred document.
type SchemaEntry struct {
	Key    string `json:"key"`
	Schema any    `json:"schema"`
}

// ExtractSchemasOutput is the output type for the extract_schemas tool.
type ExtractSchemasOutput struct {
	ExtractionID string         `json:"extraction_id"`
	InputDir     string         `json:"input_dir"`
	Stats        ScanStats      `json:"stats"`
	Agents       []string       `json:"agents,omitzero"`
	Groups       []GroupSummary `json:"groups,omitzero"`
	Schemas      []SchemaEntry  `json:"schemas,omitempty"`
	Resources    []ResourceRef  `json:"resources,omitzero"`
	Hint         string         `json:"hint,omitempty"`
}

// CoverageOutput is the output type for the get_coverage tool.
type CoverageOutput struct {
	ExtractionID string `json:"extraction_id"`
	// Coverage maps agents to expected, observed, missing and unknown kinds.
	Coverage any `json:"coverage"`
}
