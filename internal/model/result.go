package model

// ValidationResult is an immutable snapshot produced by every validation call.
// Missing lists absent required fields in RequiredFields order.
type ValidationResult struct {
	Valid             bool     `json:"valid"`
	Issues            []string `json:"issues"`
	Warnings          []string `json:"warnings"`
	CompletenessScore float64  `json:"completeness_score"`
	Missing           []string `json:"missing,omitempty"`
	DailyBudget       *float64 `json:"daily_budget,omitempty"`
}

// FeasibilityResult is the outcome of re-checking a generated itinerary.
// UnknownVenues holds activity venue ids that did not resolve in the catalog.
type FeasibilityResult struct {
	Feasible      bool     `json:"feasible"`
	Issues        []string `json:"issues"`
	Warnings      []string `json:"warnings"`
	UnknownVenues []string `json:"unknown_venues,omitempty"`
}
