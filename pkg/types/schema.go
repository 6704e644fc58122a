package types

// ValidationResult contains the result of validating a single value.
type ValidationResult struct {
	Index  int      `json:"index"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationSummary summarizes the validation results.
type ValidationSummary struct {
	TotalSamples  int  `json:"total_samples"`
	MatchingCount int  `json:"matching_count"`
	FailedCount   int  `json:"failed_count"`
	AllMatch      bool `json:"all_match"`
}

// CommonError represents a frequently occurring validation error.
type CommonError struct {
	Error     string `json:"error"`
	Frequency int    `json:"frequency"`
}

// ValidateSamplesOutput is the output type for the validate_samples tool.
type ValidateSamplesOutput struct {
	Summary      ValidationSummary  `json:"summary"`
	Results      []ValidationResult `json:"results,omitzero"`
	CommonErrors []CommonError      `json:"common_errors,omitempty"`
}
