// Package clinical holds the static clinical value tables used to make
// generated resources plausible: lab-test definitions with reference ranges
// and interpretation thresholds, plus code vocabularies for conditions,
// medications, specialties and clinical documents.
package clinical

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/synthfhir/synthfhir/internal/lib"
)

// Interpretation labels a lab value relative to its reference range
type Interpretation string

const (
	InterpretationLow    Interpretation = "LOW"
	InterpretationNormal Interpretation = "NORMAL"
	InterpretationHigh   Interpretation = "HIGH"
)

// Interpretations lists all labels in a stable order for deterministic sampling
var Interpretations = []Interpretation{InterpretationLow, InterpretationNormal, InterpretationHigh}

// ValueRange is an inclusive numeric interval
type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ObservationDefinition describes one lab test: its LOINC identity, unit and
// the value sub-range implied by each interpretation label
type ObservationDefinition struct {
	Code            string                        `json:"code"`
	Display         string                        `json:"display"`
	Text            string                        `json:"text"`
	System          string                        `json:"system"`
	Category        string                        `json:"category"`
	Unit            string                        `json:"unit"`
	UnitSystem      string                        `json:"unit_system"`
	UnitCode        string                        `json:"unit_code"`
	NormalRange     ValueRange                    `json:"normal_range"`
	Interpretations map[Interpretation]ValueRange `json:"interpretations"`
}

// InterpretationCoding is the terminology coding emitted for a label
type InterpretationCoding struct {
	System  string
	Code    string
	Display string
}

// InterpretationCodings maps labels to v3-ObservationInterpretation codings
var InterpretationCodings = map[Interpretation]InterpretationCoding{
	InterpretationLow: {
		System:  "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation",
		Code:    "L",
		Display: "Low",
	},
	InterpretationNormal: {
		System:  "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation",
		Code:    "N",
		Display: "Normal",
	},
	InterpretationHigh: {
		System:  "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation",
		Code:    "H",
		Display: "High",
	},
}

// Library is the lookup table of lab-test definitions. It is pure data:
// no state beyond the definition slice, no side effects on access.
type Library struct {
	defs []ObservationDefinition
}

// NewLibrary wraps a definition slice
func NewLibrary(defs []ObservationDefinition) *Library {
	return &Library{defs: defs}
}

// LoadLibrary reads a lab-definition JSON file produced by 'synthfhir loinc build'
func LoadLibrary(path string) (*Library, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lib.ErrFileNotFound(path)
		}
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}

	var defs []ObservationDefinition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse library file %s: %w", path, err)
	}

	return &Library{defs: defs}, nil
}

// SaveDefinitions writes a definition slice as the JSON format LoadLibrary reads
func SaveDefinitions(path string, defs []ObservationDefinition) error {
	raw, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal definitions: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return lib.ErrOutputWrite(path, err)
	}
	return nil
}

// Len returns the number of loaded definitions
func (l *Library) Len() int {
	return len(l.defs)
}

// IsEmpty reports whether the library has no usable definitions
func (l *Library) IsEmpty() bool {
	return len(l.defs) == 0
}

// Definitions returns the definition slice in load order
func (l *Library) Definitions() []ObservationDefinition {
	return l.defs
}

// SampleDefinition selects one definition using the caller-supplied picker
// (pick(n) must return a value in [0, n)). An empty library is a hard error:
// callers must treat it as fatal for observation generation rather than
// receive a malformed definition.
func (l *Library) SampleDefinition(pick func(n int) int) (ObservationDefinition, error) {
	if len(l.defs) == 0 {
		return ObservationDefinition{}, lib.ErrEmptyLibrary()
	}
	return l.defs[pick(len(l.defs))], nil
}
