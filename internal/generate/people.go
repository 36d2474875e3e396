package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/models"
)

const dateLayout = "2006-01-02"

// NewPractitioner builds a Practitioner with an NPI identifier and a
// randomly assigned specialty. A non-empty organizationRef records the clinic
// the practitioner works for as the issuer of their qualification.
func NewPractitioner(src *Source, organizationRef string) lib.FHIRResource {
	specialty := Pick(src, clinical.PractitionerSpecialties)
	given := src.Faker.FirstName()
	family := src.Faker.LastName()

	qualification := map[string]interface{}{
		"code": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  specialty.System,
					"code":    specialty.Code,
					"display": specialty.Display,
				},
			},
			"text": specialty.Display,
		},
	}
	if organizationRef != "" {
		qualification["issuer"] = map[string]interface{}{
			"reference": organizationRef,
		}
	}

	return lib.FHIRResource{
		"resourceType": "Practitioner",
		"id":           src.UUID(),
		"active":       true,
		"identifier": []interface{}{
			map[string]interface{}{
				"system": "http://hl7.org/fhir/sid/us-npi",
				"value":  src.Faker.Numerify("##########"),
			},
		},
		"name": []interface{}{
			map[string]interface{}{
				"family": family,
				"given":  []interface{}{given},
				"prefix": []interface{}{"Dr."},
				"text":   fmt.Sprintf("Dr. %s %s", given, family),
			},
		},
		"telecom": []interface{}{
			map[string]interface{}{
				"system": "email",
				"value":  fmt.Sprintf("%s.%s@example.org", strings.ToLower(given), strings.ToLower(family)),
				"use":    "work",
			},
		},
		"qualification": []interface{}{qualification},
	}
}

// NewPatient builds a Patient. A non-nil profile pins the demographics;
// otherwise they are drawn from the random source. Profile fields left empty
// fall back to random values.
func NewPatient(src *Source, profile *models.PatientProfile) lib.FHIRResource {
	given := src.Faker.FirstName()
	family := src.Faker.LastName()
	gender := Pick(src, []string{"male", "female"})
	birthDate := src.DateBetween(
		src.Now.AddDate(-90, 0, 0),
		src.Now.AddDate(-1, 0, 0),
	).Format(dateLayout)

	if profile != nil {
		if profile.FirstName != "" {
			given = profile.FirstName
		}
		if profile.LastName != "" {
			family = profile.LastName
		}
		if profile.Gender != "" {
			gender = profile.Gender
		}
		if profile.BirthDate != "" {
			birthDate = profile.BirthDate
		}
	}

	return lib.FHIRResource{
		"resourceType": "Patient",
		"id":           src.UUID(),
		"active":       true,
		"name": []interface{}{
			map[string]interface{}{
				"use":    "official",
				"family": family,
				"given":  []interface{}{given},
				"text":   fmt.Sprintf("%s %s", given, family),
			},
		},
		"gender":    gender,
		"birthDate": birthDate,
		"telecom": []interface{}{
			map[string]interface{}{
				"system": "phone",
				"value":  src.Faker.Phone(),
				"use":    "home",
			},
		},
		"address": []interface{}{
			map[string]interface{}{
				"use":        "home",
				"line":       []interface{}{src.Faker.Street()},
				"city":       src.Faker.City(),
				"state":      src.Faker.StateAbr(),
				"postalCode": src.Faker.Zip(),
				"country":    "US",
			},
		},
	}
}

// pastDateTime returns an ISO timestamp within the given number of days
// before the source's anchor time
func pastDateTime(src *Source, withinDays int) string {
	start := src.Now.AddDate(0, 0, -withinDays)
	return src.DateBetween(start, src.Now).Format(time.RFC3339)
}
