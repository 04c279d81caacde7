package model

import "time"

// Venue is a read-only catalog record. Cost is the typical per-person spend
// when known; zero means the planner falls back to the category estimate.
type Venue struct {
	ID          string     `json:"venue_id" yaml:"venue_id"`
	Name        string     `json:"name" yaml:"name"`
	City        string     `json:"city" yaml:"city"`
	Category    string     `json:"category" yaml:"category"`
	Address     string     `json:"address,omitempty" yaml:"address"`
	Description string     `json:"description,omitempty" yaml:"description"`
	SourceURL   string     `json:"source_url" yaml:"source_url"`
	Cost        float64    `json:"cost,omitempty" yaml:"cost"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"-"`
}
