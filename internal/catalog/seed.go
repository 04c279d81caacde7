package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/trip-planner/internal/model"
)

// seedFile is the document form of a seed file: either a bare list or a
// mapping with a "venues" key.
type seedFile struct {
	Venues []model.Venue `json:"venues" yaml:"venues"`
}

// LoadFile reads venues from a .yaml, .yml or .json seed file.
func LoadFile(path string) ([]model.Venue, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(b)
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return nil, fmt.Errorf("seed file %s: unsupported extension (want .yaml, .yml or .json)", path)
	}
}

// ParseYAML decodes a YAML seed document.
func ParseYAML(b []byte) ([]model.Venue, error) {
	var list []model.Venue
	if err := yaml.Unmarshal(b, &list); err == nil {
		return checkSeed(list)
	}
	var doc seedFile
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml seed: %w", err)
	}
	return checkSeed(doc.Venues)
}

// ParseJSON decodes a JSON seed document.
func ParseJSON(b []byte) ([]model.Venue, error) {
	var list []model.Venue
	if err := json.Unmarshal(b, &list); err == nil {
		return checkSeed(list)
	}
	var doc seedFile
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse json seed: %w", err)
	}
	return checkSeed(doc.Venues)
}

// MarshalYAML renders venues as a seed document.
func MarshalYAML(venues []model.Venue) ([]byte, error) {
	return yaml.Marshal(seedFile{Venues: venues})
}

func checkSeed(venues []model.Venue) ([]model.Venue, error) {
	seen := map[string]bool{}
	for i, v := range venues {
		if v.ID == "" || v.SourceURL == "" {
			return nil, fmt.Errorf("seed venue #%d: venue_id and source_url are required", i+1)
		}
		if seen[v.ID] {
			return nil, fmt.Errorf("seed venue #%d: duplicate venue_id %q", i+1, v.ID)
		}
		seen[v.ID] = true
	}
	return venues, nil
}
