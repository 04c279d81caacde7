package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rcliao/trip-planner/internal/model"
)

// TripFileSchemaVersion is written into every trip file.
const TripFileSchemaVersion = "1.0"

// TripFile is the on-disk form of a completed trip's preferences.
type TripFile struct {
	model.Preferences
	FileMetadata FileMetadata `json:"file_metadata"`
}

// FileMetadata describes a trip file.
type FileMetadata struct {
	CreatedAt     time.Time `json:"created_at"`
	SchemaVersion string    `json:"schema_version"`
}

// WriteTripFile writes <dir>/<trip_id>.json and returns its path. The file
// is written to a temp name first and renamed into place.
func WriteTripFile(dir string, p model.Preferences) (string, error) {
	if p.TripID == "" {
		return "", fmt.Errorf("write trip file: trip id is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create trips dir: %w", err)
	}

	body, err := json.MarshalIndent(TripFile{
		Preferences:  p,
		FileMetadata: FileMetadata{CreatedAt: time.Now().UTC(), SchemaVersion: TripFileSchemaVersion},
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode trip file: %w", err)
	}

	path := filepath.Join(dir, p.TripID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", fmt.Errorf("write trip file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write trip file: %w", err)
	}
	return path, nil
}

// ReadTripFile loads a trip file written by WriteTripFile.
func ReadTripFile(path string) (*TripFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf TripFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return nil, fmt.Errorf("decode trip file %s: %w", path, err)
	}
	return &tf, nil
}
