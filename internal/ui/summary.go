package ui

import (
	"fmt"
	"io"
	"sort"
)

// resourceOrder fixes the display order of the generation summary so related
// resource types group together. Unknown types sort after these, alphabetically.
var resourceOrder = []string{
	"Organization",
	"Location",
	"Practitioner",
	"Patient",
	"Encounter",
	"Condition",
	"Observation",
	"Appointment",
	"MedicationRequest",
	"Procedure",
	"Immunization",
	"AllergyIntolerance",
	"Binary",
	"DocumentReference",
}

// WriteSummary renders a per-type resource count table after a generation or
// upload run
func WriteSummary(w io.Writer, counts map[string]int) {
	rank := make(map[string]int, len(resourceOrder))
	for i, name := range resourceOrder {
		rank[name] = i
	}

	types := make([]string, 0, len(counts))
	for resourceType := range counts {
		types = append(types, resourceType)
	}
	sort.Slice(types, func(i, j int) bool {
		ri, iKnown := rank[types[i]]
		rj, jKnown := rank[types[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return types[i] < types[j]
		}
	})

	total := 0
	for _, resourceType := range types {
		fmt.Fprintf(w, "  %-20s %d\n", resourceType, counts[resourceType])
		total += counts[resourceType]
	}
	fmt.Fprintf(w, "  %-20s %d\n", "Total", total)
}
