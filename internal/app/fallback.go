package app

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed seeddata/*.json
var seedFiles embed.FS

// seedFileNames maps canonical categories to their bundled seed files.
// The files keep the Dutch plural names they have always shipped under.
var seedFileNames = map[string]string{
	CategoryWorkshop:  "seeddata/workshops.json",
	CategoryTraining:  "seeddata/trainingen.json",
	CategoryEvenement: "seeddata/evenementen.json",
}

// SeedEvents returns the bundled events for a canonical category. This is
// the read path when no blob storage is configured and the seed for the
// first write when it is. The returned slice is a fresh copy on every
// call so callers can append and mutate freely.
func SeedEvents(canonical string) ([]Event, error) {
	name, ok := seedFileNames[canonical]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, canonical)
	}

	data, err := seedFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", name, err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", name, err)
	}
	return events, nil
}
