package generate

import (
	"fmt"

	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// NewClinic builds an Organization and its Location. The Location points back
// at the Organization through managingOrganization, so callers must add the
// Organization to the graph first.
func NewClinic(src *Source) (org lib.FHIRResource, loc lib.FHIRResource) {
	orgID := src.UUID()
	name := fmt.Sprintf("%s %s Clinic", src.Faker.City(), Pick(src, clinical.ClinicKinds))

	org = lib.FHIRResource{
		"resourceType": "Organization",
		"id":           orgID,
		"active":       true,
		"name":         name,
		"type": []interface{}{
			map[string]interface{}{
				"coding": []interface{}{
					map[string]interface{}{
						"system":  "http://terminology.hl7.org/CodeSystem/organization-type",
						"code":    "prov",
						"display": "Healthcare Provider",
					},
				},
			},
		},
		"telecom": []interface{}{
			map[string]interface{}{
				"system": "phone",
				"value":  src.Faker.Phone(),
				"use":    "work",
			},
		},
	}

	loc = lib.FHIRResource{
		"resourceType": "Location",
		"id":           src.UUID(),
		"status":       "active",
		"name":         name,
		"mode":         "instance",
		"address": map[string]interface{}{
			"line":       []interface{}{src.Faker.Street()},
			"city":       src.Faker.City(),
			"state":      src.Faker.StateAbr(),
			"postalCode": src.Faker.Zip(),
			"country":    "US",
		},
		"managingOrganization": map[string]interface{}{
			"reference": lib.Reference("Organization", orgID),
			"display":   name,
		},
	}

	return org, loc
}
