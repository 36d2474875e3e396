package generate

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synthfhir/synthfhir/internal/clinical"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/models"
)

func requireMissingReference(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)

	var genErr *lib.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, lib.CategoryReference, genErr.Category)
}

func TestNewClinic_LocationPointsAtOrganization(t *testing.T) {
	src := NewSource(42)
	org, loc := NewClinic(src)

	orgType, _ := org.GetResourceType()
	locType, _ := loc.GetResourceType()
	assert.Equal(t, "Organization", orgType)
	assert.Equal(t, "Location", locType)
	assert.Equal(t, org["name"], loc["name"])

	orgID, _ := org.GetID()
	refs := lib.CollectReferences(loc)
	require.Len(t, refs, 1)
	assert.Equal(t, lib.Reference("Organization", orgID), refs[0])
}

func TestNewPatient_ProfilePinsDemographics(t *testing.T) {
	src := NewSource(42)

	profile := &models.PatientProfile{
		FirstName: "Maria",
		LastName:  "Garcia",
		Gender:    "female",
		BirthDate: "1958-03-14",
	}
	patient := NewPatient(src, profile)

	assert.Equal(t, "female", patient["gender"])
	assert.Equal(t, "1958-03-14", patient["birthDate"])

	name := patient["name"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Garcia", name["family"])
	assert.Equal(t, []interface{}{"Maria"}, name["given"])
}

func TestNewPatient_EmptyProfileFieldsFallBackToRandom(t *testing.T) {
	src := NewSource(42)

	patient := NewPatient(src, &models.PatientProfile{FirstName: "Ana"})
	name := patient["name"].([]interface{})[0].(map[string]interface{})

	assert.Equal(t, []interface{}{"Ana"}, name["given"])
	assert.NotEmpty(t, name["family"])
	assert.Contains(t, []interface{}{"male", "female"}, patient["gender"])
	assert.NotEmpty(t, patient["birthDate"])
}

func TestNewEncounter_RequiresAllReferences(t *testing.T) {
	src := NewSource(42)

	_, err := NewEncounter(src, "", "Practitioner/x", "Organization/y", "Location/l")
	requireMissingReference(t, err)

	_, err = NewEncounter(src, "Patient/p", "", "Organization/y", "Location/l")
	requireMissingReference(t, err)

	_, err = NewEncounter(src, "Patient/p", "Practitioner/x", "", "Location/l")
	requireMissingReference(t, err)

	_, err = NewEncounter(src, "Patient/p", "Practitioner/x", "Organization/y", "")
	requireMissingReference(t, err)

	encounter, err := NewEncounter(src, "Patient/p", "Practitioner/x", "Organization/y", "Location/l")
	require.NoError(t, err)

	refs := lib.CollectReferences(encounter)
	assert.ElementsMatch(t, []string{"Patient/p", "Practitioner/x", "Organization/y", "Location/l"}, refs)
}

func TestNewPractitioner_CarriesClinicReference(t *testing.T) {
	src := NewSource(42)

	practitioner := NewPractitioner(src, "Organization/clinic-1")
	refs := lib.CollectReferences(practitioner)
	assert.Equal(t, []string{"Organization/clinic-1"}, refs)

	unassigned := NewPractitioner(src, "")
	assert.Empty(t, lib.CollectReferences(unassigned))
}

func TestNewObservation_ValueMatchesInterpretation(t *testing.T) {
	src := NewSource(42)
	library := clinical.DefaultLibrary()

	for i := 0; i < 200; i++ {
		def, err := library.SampleDefinition(src.PickIndex)
		require.NoError(t, err)

		observation, err := NewObservation(src, def, "Patient/p", "", "Practitioner/x")
		require.NoError(t, err)

		value := observation["valueQuantity"].(map[string]interface{})["value"].(float64)
		coding := observation["interpretation"].([]interface{})[0].(map[string]interface{})["coding"].([]interface{})[0].(map[string]interface{})
		label := clinical.Interpretation(map[string]clinical.Interpretation{
			"L": clinical.InterpretationLow,
			"N": clinical.InterpretationNormal,
			"H": clinical.InterpretationHigh,
		}[coding["code"].(string)])

		band := def.Interpretations[label]
		assert.GreaterOrEqual(t, value, band.Low, "%s %s", def.Code, label)
		assert.LessOrEqual(t, value, band.High, "%s %s", def.Code, label)
	}
}

func TestNewObservation_CarriesUnitsAndReferenceRange(t *testing.T) {
	src := NewSource(42)
	def := clinical.DefaultLibrary().Definitions()[0]

	observation, err := NewObservation(src, def, "Patient/p", "Encounter/e", "Practitioner/x")
	require.NoError(t, err)

	quantity := observation["valueQuantity"].(map[string]interface{})
	assert.Equal(t, def.Unit, quantity["unit"])
	assert.Equal(t, def.UnitCode, quantity["code"])

	refs := lib.CollectReferences(observation)
	assert.ElementsMatch(t, []string{"Patient/p", "Encounter/e", "Practitioner/x"}, refs)

	rr := observation["referenceRange"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, def.NormalRange.Low, rr["low"].(map[string]interface{})["value"])
	assert.Equal(t, def.NormalRange.High, rr["high"].(map[string]interface{})["value"])
}

func TestNewObservation_RoundedValueStaysInNarrowBand(t *testing.T) {
	// A sub-range narrower than the rounding step must still contain the
	// reported value: low TSH values like 0.04 round to 0.0 without clamping.
	def := clinical.ObservationDefinition{
		Code:        "11580-8",
		Display:     "Thyrotropin [Units/volume] in Serum or Plasma",
		Unit:        "mIU/L",
		NormalRange: clinical.ValueRange{Low: 0.4, High: 4.0},
		Interpretations: map[clinical.Interpretation]clinical.ValueRange{
			clinical.InterpretationLow:    {Low: 0.01, High: 0.39},
			clinical.InterpretationNormal: {Low: 0.4, High: 4.0},
			clinical.InterpretationHigh:   {Low: 4.1, High: 11.2},
		},
	}

	for seed := uint64(1); seed <= 50; seed++ {
		src := NewSource(seed)
		for i := 0; i < 20; i++ {
			observation, err := NewObservation(src, def, "Patient/p", "", "")
			require.NoError(t, err)

			value := observation["valueQuantity"].(map[string]interface{})["value"].(float64)
			coding := observation["interpretation"].([]interface{})[0].(map[string]interface{})["coding"].([]interface{})[0].(map[string]interface{})
			if coding["code"] == "L" {
				assert.GreaterOrEqual(t, value, 0.01, "seed %d", seed)
				assert.LessOrEqual(t, value, 0.39, "seed %d", seed)
			}
		}
	}
}

func TestNewObservation_RequiresPatient(t *testing.T) {
	src := NewSource(42)
	def := clinical.DefaultLibrary().Definitions()[0]

	_, err := NewObservation(src, def, "", "", "")
	requireMissingReference(t, err)
}

func TestNewCondition_PinnedConceptWins(t *testing.T) {
	src := NewSource(42)

	concept := &clinical.CodedConcept{
		System:  "http://hl7.org/fhir/sid/icd-10",
		Code:    "E11",
		Display: "Type 2 diabetes mellitus",
	}
	condition, err := NewCondition(src, "Patient/p", concept)
	require.NoError(t, err)

	code := condition["code"].(map[string]interface{})
	coding := code["coding"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "E11", coding["code"])
	assert.Equal(t, "Type 2 diabetes mellitus", code["text"])

	_, err = NewCondition(src, "", nil)
	requireMissingReference(t, err)
}

func TestNewAppointment_FutureStartIsNeverFulfilled(t *testing.T) {
	src := NewSource(42)

	for i := 0; i < 100; i++ {
		appointment, err := NewAppointment(src, "Patient/p", "Practitioner/x", "Location/l")
		require.NoError(t, err)

		start := appointment["start"].(string)
		if start > src.Now.Format("2006-01-02") {
			assert.NotEqual(t, "fulfilled", appointment["status"])
		}
	}
}

func TestNewAppointment_ParticipantsIncludeLocation(t *testing.T) {
	src := NewSource(42)

	appointment, err := NewAppointment(src, "Patient/p", "Practitioner/x", "Location/l")
	require.NoError(t, err)

	refs := lib.CollectReferences(appointment)
	assert.ElementsMatch(t, []string{"Patient/p", "Practitioner/x", "Location/l"}, refs)

	_, err = NewAppointment(src, "Patient/p", "Practitioner/x", "")
	requireMissingReference(t, err)
}

func TestNewMedicationRequest_PinnedMedicationWins(t *testing.T) {
	src := NewSource(42)

	medication := &clinical.Medication{Name: "METFORMIN 500 MG TAB"}
	request, err := NewMedicationRequest(src, "Patient/p", "Practitioner/x", medication)
	require.NoError(t, err)

	concept := request["medicationCodeableConcept"].(map[string]interface{})
	assert.Equal(t, "METFORMIN 500 MG TAB", concept["text"])

	// Pinned medications without dosing data carry no dosageInstruction
	_, hasDosage := request["dosageInstruction"]
	assert.False(t, hasDosage)

	_, err = NewMedicationRequest(src, "", "Practitioner/x", nil)
	requireMissingReference(t, err)
	_, err = NewMedicationRequest(src, "Patient/p", "", nil)
	requireMissingReference(t, err)
}

func TestNewClinicalNote_BinaryAndDocumentReferenceLink(t *testing.T) {
	src := NewSource(42)

	binary, docRef, err := NewClinicalNote(src, "Patient/p", "Encounter/e", "Practitioner/x")
	require.NoError(t, err)

	binaryID, _ := binary.GetID()
	assert.Equal(t, "text/plain", binary["contentType"])

	decoded, err := base64.StdEncoding.DecodeString(binary["data"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "CHIEF COMPLAINT")
	assert.Contains(t, string(decoded), "ASSESSMENT")
	assert.Contains(t, string(decoded), "PLAN")

	refs := lib.CollectReferences(docRef)
	assert.Contains(t, refs, lib.Reference("Binary", binaryID))
	assert.Contains(t, refs, "Patient/p")
	assert.Contains(t, refs, "Encounter/e")
	assert.Contains(t, refs, "Practitioner/x")

	_, _, err = NewClinicalNote(src, "", "Encounter/e", "")
	requireMissingReference(t, err)
	_, _, err = NewClinicalNote(src, "Patient/p", "", "")
	requireMissingReference(t, err)
}

func TestNewAllergyIntolerance_PinnedSubstanceWins(t *testing.T) {
	src := NewSource(42)

	allergen := clinical.AllergenForSubstance("Penicillin")
	allergy, err := NewAllergyIntolerance(src, "Patient/p", "Practitioner/x", &allergen)
	require.NoError(t, err)

	code := allergy["code"].(map[string]interface{})
	assert.Equal(t, "Penicillin", code["text"])
	assert.Equal(t, []interface{}{"medication"}, allergy["category"])

	refs := lib.CollectReferences(allergy)
	assert.ElementsMatch(t, []string{"Patient/p", "Practitioner/x"}, refs)

	_, err = NewAllergyIntolerance(src, "", "", nil)
	requireMissingReference(t, err)
}

func TestNewAllergyIntolerance_SampledAllergenHasManifestations(t *testing.T) {
	src := NewSource(42)

	allergy, err := NewAllergyIntolerance(src, "Patient/p", "", nil)
	require.NoError(t, err)

	assert.NotContains(t, allergy, "recorder")

	reaction := allergy["reaction"].([]interface{})[0].(map[string]interface{})
	manifestations := reaction["manifestation"].([]interface{})
	assert.NotEmpty(t, manifestations)
	assert.Contains(t, clinical.AllergySeverities, reaction["severity"])
}

func TestNewImmunization_LinksAreOptional(t *testing.T) {
	src := NewSource(42)

	immunization, err := NewImmunization(src, "Patient/p", "Practitioner/x", "Encounter/e", "Location/l")
	require.NoError(t, err)

	assert.Equal(t, "completed", immunization["status"])
	refs := lib.CollectReferences(immunization)
	assert.ElementsMatch(t, []string{"Patient/p", "Practitioner/x", "Encounter/e", "Location/l"}, refs)

	bare, err := NewImmunization(src, "Patient/p", "Practitioner/x", "", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Patient/p", "Practitioner/x"}, lib.CollectReferences(bare))

	_, err = NewImmunization(src, "", "Practitioner/x", "", "")
	requireMissingReference(t, err)
	_, err = NewImmunization(src, "Patient/p", "", "", "")
	requireMissingReference(t, err)
}
