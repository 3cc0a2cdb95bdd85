package grocery

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// generateID creates a prefixed opaque identifier (e.g. "itm-V1StGXR8_Z5jdHi6B-myT").
// Item ids are never derived from the item name: two meals may contribute
// identically named items that must stay distinguishable until merged.
func generateID(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return prefix + "-" + id, nil
}
