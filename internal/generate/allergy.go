package generate

import (
	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// NewAllergyIntolerance builds an AllergyIntolerance for a patient. A nil
// allergen samples one from the vocabulary; profiles pass their pinned
// substance explicitly. The recorder is optional.
func NewAllergyIntolerance(src *Source, patientRef, recorderRef string, allergen *clinical.Allergen) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("AllergyIntolerance", "patient")
	}

	var chosen clinical.Allergen
	if allergen != nil {
		chosen = *allergen
	} else {
		chosen = Pick(src, clinical.Allergens)
	}

	manifestations := []interface{}{}
	for i := 0; i < src.IntRange(1, 2); i++ {
		manifestation := Pick(src, clinical.AllergyManifestations)
		manifestations = append(manifestations, map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  manifestation.System,
					"code":    manifestation.Code,
					"display": manifestation.Display,
				},
			},
		})
	}

	allergy := lib.FHIRResource{
		"resourceType": "AllergyIntolerance",
		"id":           src.UUID(),
		"clinicalStatus": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system": "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical",
					"code":   Pick(src, clinical.AllergyClinicalStatuses),
				},
			},
		},
		"verificationStatus": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system": "http://terminology.hl7.org/CodeSystem/allergyintolerance-verification",
					"code":   "confirmed",
				},
			},
		},
		"category":    []interface{}{chosen.Category},
		"criticality": Pick(src, clinical.AllergyCriticalities),
		"code": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  chosen.Concept.System,
					"code":    chosen.Concept.Code,
					"display": chosen.Concept.Display,
				},
			},
			"text": chosen.Concept.Display,
		},
		"patient": map[string]interface{}{
			"reference": patientRef,
		},
		"recordedDate": pastDateTime(src, 10*365),
		"reaction": []interface{}{
			map[string]interface{}{
				"manifestation": manifestations,
				"severity":      Pick(src, clinical.AllergySeverities),
			},
		},
	}

	if recorderRef != "" {
		allergy["recorder"] = map[string]interface{}{
			"reference": recorderRef,
		}
	}

	return allergy, nil
}
