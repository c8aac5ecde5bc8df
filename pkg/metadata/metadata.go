package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"listingscraper/pkg/models"
	"listingscraper/pkg/storage"
)

// DefaultFileName is the sidecar written next to the photos
const DefaultFileName = "property_details.json"

// Record is the sidecar content. Each run replaces the whole file.
type Record struct {
	models.ListingMetadata
	Provider  string    `json:"provider"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// NewRecord wraps extracted metadata with run details
func NewRecord(meta models.ListingMetadata, provider string) *Record {
	return &Record{
		ListingMetadata: meta,
		Provider:        provider,
		ScrapedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

// Save writes the record as indented JSON into dir
func (r *Record) Save(dir, fileName string) (string, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := storage.WriteAtomic(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}
	return path, nil
}

// Load reads a sidecar from dir
func Load(dir, fileName string) (*Record, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &r, nil
}

// Exists checks whether dir already holds a sidecar
func Exists(dir, fileName string) bool {
	if fileName == "" {
		fileName = DefaultFileName
	}
	_, err := os.Stat(filepath.Join(dir, fileName))
	return err == nil
}

// Lines renders the record for terminal output, skipping unavailable fields
func (r *Record) Lines() []string {
	fields := []struct{ label, value string }{
		{"Address", r.Address},
		{"Price", r.Price},
		{"Beds", r.Beds},
		{"Baths", r.Baths},
		{"Sq Ft", r.Sqft},
	}

	var lines []string
	for _, f := range fields {
		if f.value == "" || f.value == models.Unavailable {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-8s %s", f.label+":", f.value))
	}
	if d := r.Description; d != "" && d != models.Unavailable {
		if len(d) > 120 {
			d = strings.TrimSpace(d[:117]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%-8s %s", "About:", d))
	}
	return lines
}
