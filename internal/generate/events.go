package generate

import (
	"time"

	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// NewCondition builds a Condition for a patient. A nil concept samples one
// from the ICD-10 vocabulary; profiles pass their pinned concept explicitly.
func NewCondition(src *Source, patientRef string, concept *clinical.CodedConcept) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("Condition", "subject")
	}

	var chosen clinical.CodedConcept
	if concept != nil {
		chosen = *concept
	} else {
		chosen = Pick(src, clinical.ConditionsICD10)
	}

	onset := pastDateTime(src, 5*365)

	return lib.FHIRResource{
		"resourceType": "Condition",
		"id":           src.UUID(),
		"clinicalStatus": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system": "http://terminology.hl7.org/CodeSystem/condition-clinical",
					"code":   "active",
				},
			},
		},
		"verificationStatus": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system": "http://terminology.hl7.org/CodeSystem/condition-ver-status",
					"code":   "confirmed",
				},
			},
		},
		"code": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  chosen.System,
					"code":    chosen.Code,
					"display": chosen.Display,
				},
			},
			"text": chosen.Display,
		},
		"subject": map[string]interface{}{
			"reference": patientRef,
		},
		"onsetDateTime": onset,
		"recordedDate":  onset,
	}, nil
}

// NewAppointment builds an Appointment between a patient and a practitioner
// at a clinic Location. Start and end land within a year either side of the
// anchor time.
func NewAppointment(src *Source, patientRef, practitionerRef, locationRef string) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("Appointment", "participant.patient")
	}
	if practitionerRef == "" {
		return nil, lib.ErrMissingReference("Appointment", "participant.practitioner")
	}
	if locationRef == "" {
		return nil, lib.ErrMissingReference("Appointment", "participant.location")
	}

	start := src.DateBetween(src.Now.AddDate(-1, 0, 0), src.Now.AddDate(1, 0, 0))
	end := start.Add(time.Duration(src.IntRange(15, 60)) * time.Minute)
	status := Pick(src, clinical.AppointmentStatuses)

	// Future appointments can only be booked or cancelled
	if start.After(src.Now) && status == "fulfilled" {
		status = "booked"
	}

	return lib.FHIRResource{
		"resourceType": "Appointment",
		"id":           src.UUID(),
		"status":       status,
		"description":  Pick(src, clinical.EncounterReasons),
		"start":        start.Format(time.RFC3339),
		"end":          end.Format(time.RFC3339),
		"participant": []interface{}{
			map[string]interface{}{
				"actor": map[string]interface{}{
					"reference": patientRef,
				},
				"required": "required",
				"status":   "accepted",
			},
			map[string]interface{}{
				"actor": map[string]interface{}{
					"reference": practitionerRef,
				},
				"required": "required",
				"status":   "accepted",
			},
			map[string]interface{}{
				"actor": map[string]interface{}{
					"reference": locationRef,
				},
				"required": "required",
				"status":   "accepted",
			},
		},
	}, nil
}

// NewMedicationRequest builds a MedicationRequest for a patient. A nil
// medication samples one from the vocabulary.
func NewMedicationRequest(src *Source, patientRef, requesterRef string, medication *clinical.Medication) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("MedicationRequest", "subject")
	}
	if requesterRef == "" {
		return nil, lib.ErrMissingReference("MedicationRequest", "requester")
	}

	var chosen clinical.Medication
	if medication != nil {
		chosen = *medication
	} else {
		chosen = Pick(src, clinical.Medications)
	}

	request := lib.FHIRResource{
		"resourceType": "MedicationRequest",
		"id":           src.UUID(),
		"status":       Pick(src, clinical.MedicationStatuses),
		"intent":       Pick(src, clinical.MedicationIntents),
		"medicationCodeableConcept": map[string]interface{}{
			"text": chosen.Name,
		},
		"subject": map[string]interface{}{
			"reference": patientRef,
		},
		"requester": map[string]interface{}{
			"reference": requesterRef,
		},
		"authoredOn": pastDateTime(src, 365),
	}

	if chosen.DoseValue > 0 {
		request["dosageInstruction"] = []interface{}{
			map[string]interface{}{
				"text": chosen.Timing,
				"route": map[string]interface{}{
					"text": chosen.Route,
				},
				"doseAndRate": []interface{}{
					map[string]interface{}{
						"doseQuantity": map[string]interface{}{
							"value": chosen.DoseValue,
							"unit":  chosen.DoseUnit,
						},
					},
				},
			},
		}
	}

	return request, nil
}

// NewProcedure builds a Procedure for a patient, optionally tied to an encounter
func NewProcedure(src *Source, patientRef, performerRef, encounterRef string) (lib.FHIRResource, error) {
	if patientRef == "" {
		return nil, lib.ErrMissingReference("Procedure", "subject")
	}

	concept := Pick(src, clinical.Procedures)

	procedure := lib.FHIRResource{
		"resourceType": "Procedure",
		"id":           src.UUID(),
		"status":       Pick(src, clinical.ProcedureStatuses),
		"code": map[string]interface{}{
			"coding": []interface{}{
				map[string]interface{}{
					"system":  concept.System,
					"code":    concept.Code,
					"display": concept.Display,
				},
			},
			"text": concept.Text,
		},
		"subject": map[string]interface{}{
			"reference": patientRef,
		},
		"performedDateTime": pastDateTime(src, 2*365),
	}

	if encounterRef != "" {
		procedure["encounter"] = map[string]interface{}{
			"reference": encounterRef,
		}
	}
	if performerRef != "" {
		procedure["performer"] = []interface{}{
			map[string]interface{}{
				"actor": map[string]interface{}{
					"reference": performerRef,
				},
			},
		}
	}

	return procedure, nil
}
