package generate

import (
	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/models"
)

// Generate runs a full generation pass and returns the resource graph.
// Base entities come first (clinics, practitioners, patients), then the
// per-patient clinical history, so insertion order is dependency order.
// onResource, when non-nil, is called once per created resource for
// progress reporting.
func Generate(
	cfg models.GenerationConfig,
	library *clinical.Library,
	src *Source,
	logger *lib.Logger,
	onResource func(resourceType string),
) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if library.IsEmpty() && cfg.PerPatient.Observations.Max > 0 {
		return nil, lib.ErrEmptyLibrary()
	}

	graph := NewGraph()
	add := func(r lib.FHIRResource) error {
		if err := graph.Add(r); err != nil {
			return err
		}
		if onResource != nil {
			resourceType, _ := r.GetResourceType()
			onResource(resourceType)
		}
		return nil
	}

	// Base entities. Organization and Location refs stay index-aligned so
	// an encounter can reference one clinic's organization and location
	// together.
	var organizationRefs []string
	var locationRefs []string
	for i := 0; i < cfg.BaseCounts.Clinics; i++ {
		org, loc := NewClinic(src)
		if err := add(org); err != nil {
			return nil, err
		}
		if err := add(loc); err != nil {
			return nil, err
		}
		orgID, _ := org.GetID()
		organizationRefs = append(organizationRefs, lib.Reference("Organization", orgID))
		locID, _ := loc.GetID()
		locationRefs = append(locationRefs, lib.Reference("Location", locID))
	}

	var practitionerRefs []string
	for i := 0; i < cfg.BaseCounts.Practitioners; i++ {
		clinicRef := ""
		if len(organizationRefs) > 0 {
			clinicRef = Pick(src, organizationRefs)
		}
		practitioner := NewPractitioner(src, clinicRef)
		if err := add(practitioner); err != nil {
			return nil, err
		}
		id, _ := practitioner.GetID()
		practitionerRefs = append(practitionerRefs, lib.Reference("Practitioner", id))
	}

	patientCount := cfg.PatientCount()
	for i := 0; i < patientCount; i++ {
		var profile *models.PatientProfile
		if len(cfg.PatientProfiles) > 0 {
			profile = &cfg.PatientProfiles[i]
		}

		patient := NewPatient(src, profile)
		if err := add(patient); err != nil {
			return nil, err
		}
		id, _ := patient.GetID()
		patientRef := lib.Reference("Patient", id)

		if err := generatePatientHistory(cfg, library, src, add, patientRef, profile, practitionerRefs, organizationRefs, locationRefs); err != nil {
			return nil, err
		}
	}

	if err := graph.VerifyReferences(); err != nil {
		return nil, lib.WrapError(lib.CategoryReference, "generated graph has unresolved references", err)
	}

	logger.Info("generation complete", "resources", graph.Len(), "patients", patientCount)
	return graph, nil
}

// generatePatientHistory creates the clinical resources for one patient.
// Encounters come before observations so observations can link to them.
func generatePatientHistory(
	cfg models.GenerationConfig,
	library *clinical.Library,
	src *Source,
	add func(lib.FHIRResource) error,
	patientRef string,
	profile *models.PatientProfile,
	practitionerRefs []string,
	organizationRefs []string,
	locationRefs []string,
) error {
	pickPractitioner := func() string {
		if len(practitionerRefs) == 0 {
			return ""
		}
		return Pick(src, practitionerRefs)
	}
	// pickClinic returns one clinic's organization and location pair
	pickClinic := func() (string, string) {
		if len(organizationRefs) == 0 {
			return "", ""
		}
		idx := src.PickIndex(len(organizationRefs))
		return organizationRefs[idx], locationRefs[idx]
	}
	pickLocation := func() string {
		if len(locationRefs) == 0 {
			return ""
		}
		return Pick(src, locationRefs)
	}

	// Conditions: profile-pinned entries win over random sampling
	if profile != nil && len(profile.Conditions) > 0 {
		for _, entry := range profile.Conditions {
			concept := clinical.CodedConcept{
				System:  "http://hl7.org/fhir/sid/icd-10",
				Code:    entry.Code,
				Display: entry.Display,
			}
			condition, err := NewCondition(src, patientRef, &concept)
			if err != nil {
				return err
			}
			if err := add(condition); err != nil {
				return err
			}
		}
	} else {
		count := src.IntRange(cfg.PerPatient.Conditions.Min, cfg.PerPatient.Conditions.Max)
		for i := 0; i < count; i++ {
			condition, err := NewCondition(src, patientRef, nil)
			if err != nil {
				return err
			}
			if err := add(condition); err != nil {
				return err
			}
		}
	}

	// Encounters, each optionally carrying a clinical note
	var encounterRefs []string
	encounterCount := src.IntRange(cfg.PerPatient.Encounters.Min, cfg.PerPatient.Encounters.Max)
	for i := 0; i < encounterCount; i++ {
		practitionerRef := pickPractitioner()
		organizationRef, locationRef := pickClinic()
		encounter, err := NewEncounter(src, patientRef, practitionerRef, organizationRef, locationRef)
		if err != nil {
			return err
		}
		if err := add(encounter); err != nil {
			return err
		}
		id, _ := encounter.GetID()
		encounterRef := lib.Reference("Encounter", id)
		encounterRefs = append(encounterRefs, encounterRef)

		_, err = MaybeCreate(cfg.PerPatient.Encounters.DocumentReferenceProbability, src, func() error {
			binary, docRef, err := NewClinicalNote(src, patientRef, encounterRef, practitionerRef)
			if err != nil {
				return err
			}
			if err := add(binary); err != nil {
				return err
			}
			return add(docRef)
		})
		if err != nil {
			return err
		}
	}
	pickEncounter := func() string {
		if len(encounterRefs) == 0 {
			return ""
		}
		return Pick(src, encounterRefs)
	}

	// Observations
	observationCount := src.IntRange(cfg.PerPatient.Observations.Min, cfg.PerPatient.Observations.Max)
	for i := 0; i < observationCount; i++ {
		def, err := library.SampleDefinition(src.PickIndex)
		if err != nil {
			return err
		}
		observation, err := NewObservation(src, def, patientRef, pickEncounter(), pickPractitioner())
		if err != nil {
			return err
		}
		if err := add(observation); err != nil {
			return err
		}
	}

	// Appointments
	appointmentCount := src.IntRange(cfg.PerPatient.Appointments.Min, cfg.PerPatient.Appointments.Max)
	for i := 0; i < appointmentCount; i++ {
		appointment, err := NewAppointment(src, patientRef, pickPractitioner(), pickLocation())
		if err != nil {
			return err
		}
		if err := add(appointment); err != nil {
			return err
		}
	}

	// Medication requests: profile-pinned medications win over random sampling
	if profile != nil && len(profile.Medications) > 0 {
		for _, entry := range profile.Medications {
			medication := clinical.Medication{Name: entry.Name, Text: entry.Name}
			request, err := NewMedicationRequest(src, patientRef, pickPractitioner(), &medication)
			if err != nil {
				return err
			}
			if err := add(request); err != nil {
				return err
			}
		}
	} else {
		count := src.IntRange(cfg.PerPatient.MedicationRequests.Min, cfg.PerPatient.MedicationRequests.Max)
		for i := 0; i < count; i++ {
			request, err := NewMedicationRequest(src, patientRef, pickPractitioner(), nil)
			if err != nil {
				return err
			}
			if err := add(request); err != nil {
				return err
			}
		}
	}

	// Procedures
	procedureCount := src.IntRange(cfg.PerPatient.Procedures.Min, cfg.PerPatient.Procedures.Max)
	for i := 0; i < procedureCount; i++ {
		procedure, err := NewProcedure(src, patientRef, pickPractitioner(), pickEncounter())
		if err != nil {
			return err
		}
		if err := add(procedure); err != nil {
			return err
		}
	}

	// Immunizations, loosely tied to an encounter and a location
	immunizationCount := src.IntRange(cfg.PerPatient.Immunizations.Min, cfg.PerPatient.Immunizations.Max)
	for i := 0; i < immunizationCount; i++ {
		encounterRef := ""
		if src.Chance(0.6) {
			encounterRef = pickEncounter()
		}
		locationRef := ""
		if src.Chance(0.8) {
			locationRef = pickLocation()
		}
		immunization, err := NewImmunization(src, patientRef, pickPractitioner(), encounterRef, locationRef)
		if err != nil {
			return err
		}
		if err := add(immunization); err != nil {
			return err
		}
	}

	// Allergy intolerances: profile-pinned substances win over random sampling
	pickRecorder := func() string {
		if src.Chance(0.6) {
			return pickPractitioner()
		}
		return ""
	}
	if profile != nil && len(profile.Allergies) > 0 {
		for _, entry := range profile.Allergies {
			allergen := clinical.AllergenForSubstance(entry.Substance)
			allergy, err := NewAllergyIntolerance(src, patientRef, pickRecorder(), &allergen)
			if err != nil {
				return err
			}
			if err := add(allergy); err != nil {
				return err
			}
		}
	} else {
		count := src.IntRange(cfg.PerPatient.AllergyIntolerances.Min, cfg.PerPatient.AllergyIntolerances.Max)
		for i := 0; i < count; i++ {
			allergy, err := NewAllergyIntolerance(src, patientRef, pickRecorder(), nil)
			if err != nil {
				return err
			}
			if err := add(allergy); err != nil {
				return err
			}
		}
	}

	return nil
}
