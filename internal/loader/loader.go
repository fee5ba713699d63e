package loader

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/napolitain/solver-blueprint/internal/models"
)

// Precompiled regex for better performance
var numberRegex = regexp.MustCompile(`\d+`)

// FieldsPerRecord is the count of numbers in one blueprint record: the id followed by six costs
const FieldsPerRecord = 7

// MaxCost is the largest cost a blueprint may carry (costs fit in a byte)
const MaxCost = 255

var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrCostRange  = errors.New("cost out of range")
	ErrInvalidID  = errors.New("blueprint id must be positive")
	ErrDuplicate  = errors.New("duplicate blueprint id")
)

// CostJSON represents the JSON structure for a two-resource cost
type CostJSON struct {
	Primary   int `json:"primary"`
	Secondary int `json:"secondary,omitempty"`
	Tertiary  int `json:"tertiary,omitempty"`
}

// BlueprintJSON represents the JSON structure for a blueprint
type BlueprintJSON struct {
	ID                int      `json:"id"`
	PrimaryProducer   int      `json:"primary_producer"`
	SecondaryProducer int      `json:"secondary_producer"`
	TertiaryProducer  CostJSON `json:"tertiary_producer"`
	TerminalProducer  CostJSON `json:"terminal_producer"`
}

// LoadBlueprints loads blueprints from a file. Files ending in .json are decoded as a
// JSON array; anything else is parsed as the line-oriented text format.
func LoadBlueprints(path string) ([]*models.Blueprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		bps, err := DecodeJSON(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return bps, nil
	}

	bps, err := ParseBlueprints(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return bps, nil
}

// ParseBlueprints reads one blueprint per non-empty line. Every run of digits on a line is
// a field; a record must hold exactly FieldsPerRecord of them.
func ParseBlueprints(r io.Reader) ([]*models.Blueprint, error) {
	var result []*models.Blueprint
	seen := make(map[int]bool)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		bp, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if seen[bp.ID] {
			return nil, fmt.Errorf("line %d: id %d: %w", lineNum, bp.ID, ErrDuplicate)
		}
		seen[bp.ID] = true
		result = append(result, bp)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ParseString is ParseBlueprints over an in-memory string
func ParseString(input string) ([]*models.Blueprint, error) {
	return ParseBlueprints(strings.NewReader(input))
}

// ParseLine parses a single blueprint record
func ParseLine(line string) (*models.Blueprint, error) {
	matches := numberRegex.FindAllString(line, -1)
	if len(matches) != FieldsPerRecord {
		return nil, fmt.Errorf("got %d numbers, want %d: %w", len(matches), FieldsPerRecord, ErrFieldCount)
	}

	var fields [FieldsPerRecord]int
	for i, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		fields[i] = n
	}

	return newBlueprint(fields)
}

// DecodeJSON decodes a JSON array of blueprints
func DecodeJSON(r io.Reader) ([]*models.Blueprint, error) {
	var raw []BlueprintJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	result := make([]*models.Blueprint, 0, len(raw))
	seen := make(map[int]bool)
	for i, b := range raw {
		bp, err := newBlueprint([FieldsPerRecord]int{
			b.ID,
			b.PrimaryProducer,
			b.SecondaryProducer,
			b.TertiaryProducer.Primary,
			b.TertiaryProducer.Secondary,
			b.TerminalProducer.Primary,
			b.TerminalProducer.Tertiary,
		})
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if seen[bp.ID] {
			return nil, fmt.Errorf("entry %d: id %d: %w", i, bp.ID, ErrDuplicate)
		}
		seen[bp.ID] = true
		result = append(result, bp)
	}

	return result, nil
}

// ToJSON converts a blueprint to its JSON structure
func ToJSON(bp *models.Blueprint) BlueprintJSON {
	return BlueprintJSON{
		ID:                bp.ID,
		PrimaryProducer:   bp.PrimaryProducer.Primary,
		SecondaryProducer: bp.SecondaryProducer.Primary,
		TertiaryProducer: CostJSON{
			Primary:   bp.TertiaryProducer.Primary,
			Secondary: bp.TertiaryProducer.Secondary,
		},
		TerminalProducer: CostJSON{
			Primary:  bp.TerminalProducer.Primary,
			Tertiary: bp.TerminalProducer.Tertiary,
		},
	}
}

// FirstN returns at most the first n blueprints
func FirstN(bps []*models.Blueprint, n int) []*models.Blueprint {
	if n < 0 || len(bps) <= n {
		return bps
	}
	return bps[:n]
}

func newBlueprint(f [FieldsPerRecord]int) (*models.Blueprint, error) {
	if f[0] <= 0 {
		return nil, fmt.Errorf("id %d: %w", f[0], ErrInvalidID)
	}
	for i, c := range f[1:] {
		if c < 0 || c > MaxCost {
			return nil, fmt.Errorf("field %d value %d: %w", i+2, c, ErrCostRange)
		}
	}
	return models.NewBlueprint(f[0], f[1], f[2], f[3], f[4], f[5], f[6]), nil
}
