package app

import (
	"fmt"
	"strings"
)

// Canonical category keys. Each category is stored as an independent JSON
// document keyed by its canonical (singular) name.
const (
	CategoryWorkshop  = "workshop"
	CategoryTraining  = "training"
	CategoryEvenement = "evenement"
)

// categoryAliases maps every accepted spelling (canonical singular plus the
// Dutch plural display forms used by the site and the admin tabs) to the
// canonical key. All lookups, id generation and storage-key derivation go
// through this table so a mismatch can never produce a second document.
var categoryAliases = map[string]string{
	"workshop":    CategoryWorkshop,
	"workshops":   CategoryWorkshop,
	"training":    CategoryTraining,
	"trainingen":  CategoryTraining,
	"evenement":   CategoryEvenement,
	"evenementen": CategoryEvenement,
}

// idPrefixes maps canonical categories to their event-id prefixes.
var idPrefixes = map[string]string{
	CategoryWorkshop:  "ws",
	CategoryTraining:  "tr",
	CategoryEvenement: "ev",
}

// Categories returns the canonical category keys in display order.
func Categories() []string {
	return []string{CategoryWorkshop, CategoryTraining, CategoryEvenement}
}

// CanonicalCategory resolves any accepted category spelling to its
// canonical key. Unrecognized input is an error: storage keys must never
// be derived from an unvalidated category.
func CanonicalCategory(alias string) (string, error) {
	canonical, ok := categoryAliases[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, alias)
	}
	return canonical, nil
}

// IDPrefix returns the event-id prefix for a canonical category.
func IDPrefix(canonical string) string {
	return idPrefixes[canonical]
}
