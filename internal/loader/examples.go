package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/napolitain/solver-blueprint/internal/models"
)

// DataFile is the file LoadBlueprintsFromDir looks for
const DataFile = "blueprints.json"

// LoadBlueprintsFromDir loads DataFile from dataDir, sorted by id
func LoadBlueprintsFromDir(dataDir string) ([]*models.Blueprint, error) {
	path := filepath.Join(dataDir, DataFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bps, err := DecodeJSON(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DataFile, err)
	}

	// Sort by id for determinism
	SortByID(bps)
	return bps, nil
}

// LoadExamples returns the two worked example blueprints (hardcoded fallback)
func LoadExamples() []*models.Blueprint {
	return []*models.Blueprint{
		// Yields 9 in 24 minutes, 56 in 32
		models.NewBlueprint(1, 4, 2, 3, 14, 2, 7),
		// Yields 12 in 24 minutes, 62 in 32
		models.NewBlueprint(2, 2, 3, 3, 8, 3, 12),
	}
}

// SortByID orders blueprints by ascending id in place
func SortByID(bps []*models.Blueprint) {
	sort.Slice(bps, func(i, j int) bool {
		return bps[i].ID < bps[j].ID
	})
}
