package generate

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// NewEncounter builds an Encounter linking a patient, a practitioner and the
// clinic where it took place, including the clinic's Location
func NewEncounter(src *Source, patientRef, practitionerRef, organizationRef, locationRef string) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("Encounter", "subject")
	}
	if practitionerRef == "" {
		return nil, lib.ErrMissingReference("Encounter", "participant.individual")
	}
	if organizationRef == "" {
		return nil, lib.ErrMissingReference("Encounter", "serviceProvider")
	}
	if locationRef == "" {
		return nil, lib.ErrMissingReference("Encounter", "location.location")
	}

	class := Pick(src, clinical.EncounterClasses)
	start := src.DateBetween(src.Now.AddDate(-2, 0, 0), src.Now)
	end := start.Add(time.Duration(src.IntRange(15, 180)) * time.Minute)

	return lib.FHIRResource{
		"resourceType": "Encounter",
		"id":           src.UUID(),
		"status":       Pick(src, clinical.EncounterStatuses),
		"class": map[string]interface{}{
			"system":  class.System,
			"code":    class.Code,
			"display": class.Display,
		},
		"subject": map[string]interface{}{
			"reference": patientRef,
		},
		"participant": []interface{}{
			map[string]interface{}{
				"individual": map[string]interface{}{
					"reference": practitionerRef,
				},
			},
		},
		"period": map[string]interface{}{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
		"reasonCode": []interface{}{
			map[string]interface{}{
				"text": Pick(src, clinical.EncounterReasons),
			},
		},
		"location": []interface{}{
			map[string]interface{}{
				"location": map[string]interface{}{
					"reference": locationRef,
				},
			},
		},
		"serviceProvider": map[string]interface{}{
			"reference": organizationRef,
		},
	}, nil
}

// NewClinicalNote builds a Binary holding a plain-text note and the
// DocumentReference that points at it. The Binary must be added to the graph
// before the DocumentReference.
func NewClinicalNote(src *Source, patientRef, encounterRef, authorRef string) (binary lib.FHIRResource, docRef lib.FHIRResource, err error) {
	if patientRef == "" {
		return nil, nil, lib.ErrMissingReference("DocumentReference", "subject")
	}
	if encounterRef == "" {
		return nil, nil, lib.ErrMissingReference("DocumentReference", "context.encounter")
	}

	note := fmt.Sprintf(
		"CHIEF COMPLAINT: Patient presents with %s.\n\nASSESSMENT: %s.\n\nPLAN: %s\n",
		Pick(src, clinical.ChiefComplaints),
		Pick(src, clinical.NoteAssessments),
		Pick(src, clinical.NotePlans),
	)

	binaryID := src.UUID()
	binary = lib.FHIRResource{
		"resourceType": "Binary",
		"id":           binaryID,
		"contentType":  "text/plain",
		"data":         base64.StdEncoding.EncodeToString([]byte(note)),
	}

	docType := Pick(src, clinical.DocumentTypes)
	created := pastDateTime(src, 2*365)

	docRef = lib.FHIRResource{
		"resourceType": "DocumentReference",
		"id":           src.UUID(),
		"status":       "current",
		"docStatus":    "final",
		"type": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  docType.System,
					"code":    docType.Code,
					"display": docType.Display,
				},
			},
			"text": docType.Display,
		},
		"subject": map[string]interface{}{
			"reference": patientRef,
		},
		"date": created,
		"content": []interface{}{
			map[string]interface{}{
				"attachment": map[string]interface{}{
					"contentType": "text/plain",
					"url":         lib.Reference("Binary", binaryID),
					"title":       docType.Display,
				},
			},
		},
		"context": map[string]interface{}{
			"encounter": []interface{}{
				map[string]interface{}{
					"reference": encounterRef,
				},
			},
		},
	}

	if authorRef != "" {
		docRef["author"] = []interface{}{
			map[string]interface{}{
				"reference": authorRef,
			},
		}
	}

	return binary, docRef, nil
}
