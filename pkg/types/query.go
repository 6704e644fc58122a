package types

// QuerySummary contains summary statistics for a sample query.
type QuerySummary struct {
	SamplesProcessed int  `json:"samples_processed"`
	SamplesMatched   int  `json:"samples_matched"`
	TotalValues      int  `json:"total_values"`
	UniqueValues     int  `json:"unique_values,omitempty"`
	Deduplicated     bool `json:"deduplicated"`
	Truncated        bool `json:"truncated,omitempty"`
}

// QueryResponse contains the full response from a sample query.
type QueryResponse struct {
	Summary     QuerySummary   `json:"summary"`
	Values      []any          `json:"values,omitzero"`
	LabelCounts map[string]int `json:"label_counts,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
	Hints       []string       `json:"hints,omitempty"`
}
