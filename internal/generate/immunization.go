package generate

import (
	"fmt"
	"strings"

	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// NewImmunization builds a completed Immunization administered by a
// practitioner. The encounter and location links are optional.
func NewImmunization(src *Source, patientRef, performerRef, encounterRef, locationRef string) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("Immunization", "patient")
	}
	if performerRef == "" {
		return nil, lib.ErrMissingReference("Immunization", "performer.actor")
	}

	vaccine := Pick(src, clinical.Vaccines)
	site := Pick(src, clinical.VaccineSites)
	route := Pick(src, clinical.VaccineRoutes)
	lotNumber := fmt.Sprintf("%s%s", strings.ToUpper(src.Faker.LetterN(3)), src.Faker.Numerify("###"))

	immunization := lib.FHIRResource{
		"resourceType": "Immunization",
		"id":           src.UUID(),
		"status":       "completed",
		"vaccineCode": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  vaccine.System,
					"code":    vaccine.Code,
					"display": vaccine.Display,
				},
			},
			"text": vaccine.Display,
		},
		"patient": map[string]interface{}{
			"reference": patientRef,
		},
		"occurrenceDateTime": pastDateTime(src, 2*365),
		"primarySource":      true,
		"lotNumber":          lotNumber,
		"site": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  site.System,
					"code":    site.Code,
					"display": site.Display,
				},
			},
		},
		"route": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  route.System,
					"code":    route.Code,
					"display": route.Display,
				},
			},
		},
		"doseQuantity": map[string]interface{}{
			"value":  0.5,
			"unit":   "mL",
			"system": "http://unitsofmeasure.org",
			"code":   "mL",
		},
		"performer": []interface{}{
			map[string]interface{}{
				"actor": map[string]interface{}{
					"reference": performerRef,
				},
			},
		},
	}

	if encounterRef != "" {
		immunization["encounter"] = map[string]interface{}{
			"reference": encounterRef,
		}
	}
	if locationRef != "" {
		immunization["location"] = map[string]interface{}{
			"reference": locationRef,
		}
	}

	return immunization, nil
}
