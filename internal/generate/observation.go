package generate

import (
	"math"

	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// NewObservation builds a lab Observation from a library definition. The
// interpretation label is chosen first, then the value is sampled from that
// label's sub-range, so value and label always agree.
func NewObservation(src *Source, def clinical.ObservationDefinition, patientRef, encounterRef, performerRef string) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("Observation", "subject")
	}

	label := Pick(src, clinical.Interpretations)
	valueRange, ok := def.Interpretations[label]
	if !ok {
		label = clinical.InterpretationNormal
		valueRange = def.NormalRange
	}

	// Rounding to one decimal can leave a narrow sub-range, so clamp the
	// value back onto its interpretation band.
	value := math.Round(src.Float64Range(valueRange.Low, valueRange.High)*10) / 10
	if value < valueRange.Low {
		value = valueRange.Low
	}
	if value > valueRange.High {
		value = valueRange.High
	}
	coding := clinical.InterpretationCodings[label]

	observation := lib.FHIRResource{
		"resourceType": "Observation",
		"id":           src.UUID(),
		"status":       Pick(src, clinical.ObservationStatuses),
		"category": []interface{}{
			map[string]interface{}{
				"coding": []interface{}{
					map[string]interface{}{
						"system":  "http://terminology.hl7.org/CodeSystem/observation-category",
						"code":    def.Category,
						"display": "Laboratory",
					},
				},
			},
		},
		"code": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  def.System,
					"code":    def.Code,
					"display": def.Display,
				},
			},
			"text": def.Text,
		},
		"subject": map[string]interface{}{
			"reference": patientRef,
		},
		"effectiveDateTime": pastDateTime(src, 365),
		"valueQuantity": map[string]interface{}{
			"value":  value,
			"unit":   def.Unit,
			"system": def.UnitSystem,
			"code":   def.UnitCode,
		},
		"interpretation": []interface{}{
			map[string]interface{}{
				"coding": []interface{}{
					map[string]interface{}{
						"system":  coding.System,
						"code":    coding.Code,
						"display": coding.Display,
					},
				},
			},
		},
		"referenceRange": []interface{}{
			map[string]interface{}{
				"low": map[string]interface{}{
					"value": def.NormalRange.Low,
					"unit":  def.Unit,
				},
				"high": map[string]interface{}{
					"value": def.NormalRange.High,
					"unit":  def.Unit,
				},
			},
		},
	}

	if encounterRef != "" {
		observation["encounter"] = map[string]interface{}{
			"reference": encounterRef,
		}
	}
	if performerRef != "" {
		observation["performer"] = []interface{}{
			map[string]interface{}{
				"reference": performerRef,
			},
		}
	}

	return observation, nil
}
