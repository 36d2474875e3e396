package clinical

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// loincRow is one record of the official LOINC table, keyed by header name
type loincRow map[string]string

// BuildDefinitions derives lab-test definitions from the official LOINC CSV.
// It keeps common, active, quantitative laboratory tests on typical specimen
// types, attaches units and clinical reference ranges, and orders the result
// by LOINC's common-test rank (most common first).
func BuildDefinitions(r io.Reader) ([]ObservationDefinition, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read LOINC header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"LOINC_NUM", "COMPONENT", "LONG_COMMON_NAME"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("LOINC CSV is missing required column %s", required)
		}
	}

	var rows []loincRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read LOINC record: %w", err)
		}

		row := make(loincRow, len(columns))
		for name, idx := range columns {
			if idx < len(record) {
				row[name] = record[idx]
			}
		}
		if isLaboratoryTest(row) {
			rows = append(rows, row)
		}
	}

	// Most common tests first
	sort.SliceStable(rows, func(i, j int) bool {
		return commonTestRank(rows[i]) < commonTestRank(rows[j])
	})

	seen := make(map[string]bool, len(rows))
	defs := make([]ObservationDefinition, 0, len(rows))
	for _, row := range rows {
		code := row["LOINC_NUM"]
		if code == "" || seen[code] {
			continue
		}
		component := row["COMPONENT"]
		longName := row["LONG_COMMON_NAME"]
		if component == "" || longName == "" {
			continue
		}
		seen[code] = true

		unit, unitCode := extractUnit(row["EXAMPLE_UNITS"])
		normal, interpretations := referenceRangesFor(component)

		text := row["SHORTNAME"]
		if text == "" {
			text = component
		}

		defs = append(defs, ObservationDefinition{
			Code:            code,
			Display:         longName,
			Text:            text,
			System:          loincSystem,
			Category:        labCategory,
			Unit:            unit,
			UnitSystem:      ucumSystem,
			UnitCode:        unitCode,
			NormalRange:     normal,
			Interpretations: interpretations,
		})
	}

	return defs, nil
}

// isLaboratoryTest keeps common quantitative/ordinal lab tests: active,
// chemistry or clinical class, ranked, with units, on common specimens.
func isLaboratoryTest(row loincRow) bool {
	switch strings.ToUpper(row["SCALE_TYP"]) {
	case "QN", "ORD":
	default:
		return false
	}

	switch row["CLASSTYPE"] {
	case "1", "2":
	default:
		return false
	}

	if strings.TrimSpace(row["EXAMPLE_UNITS"]) == "" {
		return false
	}

	if strings.ToUpper(row["STATUS"]) != "ACTIVE" {
		return false
	}

	rank := row["COMMON_TEST_RANK"]
	if rank == "" || rank == "0" {
		return false
	}

	system := strings.ToUpper(row["SYSTEM"])
	for _, specimen := range []string{"BLOOD", "SERUM", "PLASMA", "URINE", "CSF"} {
		if strings.Contains(system, specimen) {
			return true
		}
	}
	return false
}

func commonTestRank(row loincRow) int {
	rank, err := strconv.Atoi(row["COMMON_TEST_RANK"])
	if err != nil || rank == 0 {
		return 999999
	}
	return rank
}

// knownUnits maps recognizable unit substrings to their UCUM code
var knownUnits = []string{
	"mg/dL", "g/dL", "mEq/L", "mmol/L", "U/L", "IU/mL", "ng/mL", "pg/mL",
	"mcg/dL", "K/uL", "M/uL", "%", "sec", "mm/hr", "mg/L", "mIU/L",
}

// extractUnit standardizes LOINC example units; unknown units pass through
func extractUnit(exampleUnits string) (unit string, unitCode string) {
	for _, known := range knownUnits {
		if strings.Contains(exampleUnits, known) {
			return known, known
		}
	}
	return exampleUnits, exampleUnits
}

// clinicalRange pairs a component keyword with its textbook normal range
type clinicalRange struct {
	keyword string
	low     float64
	high    float64
}

// clinicalRanges are textbook adult reference ranges matched against the
// LOINC component name. Order matters: the first keyword hit wins.
var clinicalRanges = []clinicalRange{
	{"GLUC", 70, 100},
	{"CREAT", 0.6, 1.2},
	{"CHOL", 100, 200},
	{"TRIG", 0, 150},
	{"HDL", 40, 100},
	{"LDL", 0, 100},
	{"SODIUM", 136, 145},
	{"POTASSIUM", 3.5, 5.0},
	{"CHLORIDE", 98, 107},
	{"CALCIUM", 8.5, 10.5},
	{"HEMOGLOBIN A1C", 4.0, 5.6},
	{"HEMOGLOBIN", 12.0, 16.0},
	{"HEMATOCRIT", 36, 46},
	{"LEUKOCYTES", 4.5, 11.0},
	{"ERYTHROCYTES", 4.5, 5.9},
	{"PLATELETS", 150, 450},
	{"ALANINE AMINOTRANSFERASE", 7, 56},
	{"ASPARTATE AMINOTRANSFERASE", 10, 40},
	{"BILIRUBIN", 0.3, 1.2},
	{"ALBUMIN", 3.5, 5.0},
	{"THYROTROPIN", 0.4, 4.0},
	{"UREA NITROGEN", 7, 20},
}

// referenceRangesFor derives the normal range and interpretation sub-ranges
// for a component. Known components use the clinical table; unknown ones get
// a generic fallback. The LOW sub-range sits one normal-width below the
// range, HIGH extends two normal-widths above it.
func referenceRangesFor(component string) (ValueRange, map[Interpretation]ValueRange) {
	upper := strings.ToUpper(component)
	for _, entry := range clinicalRanges {
		if strings.Contains(upper, entry.keyword) {
			width := entry.high - entry.low
			normal := ValueRange{Low: entry.low, High: entry.high}
			return normal, map[Interpretation]ValueRange{
				InterpretationLow:    {Low: entry.low - width, High: entry.low - 0.1},
				InterpretationNormal: normal,
				InterpretationHigh:   {Low: entry.high + 0.1, High: entry.high + width*2},
			}
		}
	}

	// Fallback for tests with no known clinical range
	return ValueRange{Low: 0, High: 100}, map[Interpretation]ValueRange{
		InterpretationLow:    {Low: 0, High: 0},
		InterpretationNormal: {Low: 1, High: 100},
		InterpretationHigh:   {Low: 101, High: 1000},
	}
}
