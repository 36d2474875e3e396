package clinical

import "strings"

// CodedConcept is a code/display pair from a terminology system
type CodedConcept struct {
	System  string
	Code    string
	Display string
}

// Medication describes one prescribable product with default dosing
type Medication struct {
	Name      string
	Text      string
	DoseValue float64
	DoseUnit  string
	Route     string
	Timing    string
}

// ProcedureConcept describes one orderable procedure
type ProcedureConcept struct {
	System  string
	Code    string
	Display string
	Text    string
}

// ConditionsICD10 are sample ICD-10 condition codes
var ConditionsICD10 = []CodedConcept{
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "J45", Display: "Asthma"},
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "I10", Display: "Essential (primary) hypertension"},
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "E11", Display: "Type 2 diabetes mellitus"},
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "J06.9", Display: "Acute upper respiratory infection, unspecified"},
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "M54.5", Display: "Low back pain"},
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "K21.9", Display: "Gastro-esophageal reflux disease without esophagitis"},
	{System: "http://hl7.org/fhir/sid/icd-10", Code: "F32.9", Display: "Major depressive disorder, single episode, unspecified"},
}

// PractitionerSpecialties are SNOMED CT practitioner specialty codes
var PractitionerSpecialties = []CodedConcept{
	{System: "http://snomed.info/sct", Code: "408472002", Display: "Family practice physician"},
	{System: "http://snomed.info/sct", Code: "394582007", Display: "Dermatologist"},
	{System: "http://snomed.info/sct", Code: "394579002", Display: "Cardiologist"},
	{System: "http://snomed.info/sct", Code: "394595004", Display: "Neurologist"},
	{System: "http://snomed.info/sct", Code: "394807007", Display: "General surgeon"},
	{System: "http://snomed.info/sct", Code: "421636009", Display: "Pediatrician"},
	{System: "http://snomed.info/sct", Code: "394588001", Display: "Gastroenterologist"},
}

// Medications are common prescriptions with default dosing
var Medications = []Medication{
	{Name: "METFORMIN 500 MG TAB", Text: "Metformin 500mg tablet", DoseValue: 500, DoseUnit: "mg", Route: "Oral", Timing: "TWICE DAILY"},
	{Name: "LISINOPRIL 10 MG TAB", Text: "Lisinopril 10mg tablet", DoseValue: 10, DoseUnit: "mg", Route: "Oral", Timing: "DAILY"},
	{Name: "ATORVASTATIN 20 MG TAB", Text: "Atorvastatin 20mg tablet", DoseValue: 20, DoseUnit: "mg", Route: "Oral", Timing: "DAILY"},
	{Name: "FONDAPARINUX 2.5 MG/0.5 ML SC SYRG", Text: "Fondaparinux 2.5mg subcutaneous injection", DoseValue: 2.5, DoseUnit: "mg", Route: "Subcutaneous", Timing: "DAILY"},
	{Name: "OMEPRAZOLE 20 MG CAP", Text: "Omeprazole 20mg capsule", DoseValue: 20, DoseUnit: "mg", Route: "Oral", Timing: "DAILY"},
	{Name: "ALBUTEROL 90 MCG INH", Text: "Albuterol 90mcg inhaler", DoseValue: 90, DoseUnit: "mcg", Route: "Inhalation", Timing: "AS NEEDED"},
	{Name: "SERTRALINE 50 MG TAB", Text: "Sertraline 50mg tablet", DoseValue: 50, DoseUnit: "mg", Route: "Oral", Timing: "DAILY"},
	{Name: "AMOXICILLIN 500 MG CAP", Text: "Amoxicillin 500mg capsule", DoseValue: 500, DoseUnit: "mg", Route: "Oral", Timing: "THREE TIMES DAILY"},
}

// MedicationStatuses are MedicationRequest.status codes
var MedicationStatuses = []string{"active", "completed", "stopped", "on-hold"}

// MedicationIntents are MedicationRequest.intent codes
var MedicationIntents = []string{"proposal", "plan", "order", "original-order"}

// Procedures are sample SNOMED CT procedure codes
var Procedures = []ProcedureConcept{
	{System: "http://snomed.info/sct", Code: "80146002", Display: "Appendectomy", Text: "Appendectomy"},
	{System: "http://snomed.info/sct", Code: "71388002", Display: "Colonoscopy", Text: "Colonoscopy"},
	{System: "http://snomed.info/sct", Code: "32413006", Display: "Transplantation of kidney", Text: "Kidney transplant"},
	{System: "http://snomed.info/sct", Code: "16310003", Display: "Ultrasonography of abdomen", Text: "Abdominal ultrasound"},
	{System: "http://snomed.info/sct", Code: "28367004", Display: "Excision of skin lesion", Text: "Skin lesion excision"},
	{System: "http://snomed.info/sct", Code: "5431005", Display: "Injection of tendon", Text: "Tendon injection"},
}

// ProcedureStatuses are Procedure.status codes
var ProcedureStatuses = []string{"completed", "in-progress", "stopped", "not-done"}

// DocumentTypes are LOINC codes identifying clinical note kinds
var DocumentTypes = []CodedConcept{
	{System: loincSystem, Code: "11506-3", Display: "Progress note"},
	{System: loincSystem, Code: "18842-5", Display: "Discharge summary"},
	{System: loincSystem, Code: "34117-2", Display: "History and physical note"},
	{System: loincSystem, Code: "51848-0", Display: "Evaluation and management note"},
	{System: loincSystem, Code: "11504-8", Display: "Consultation note"},
	{System: loincSystem, Code: "11505-5", Display: "Nursing progress note"},
}

// EncounterClasses are ActCode encounter class codings
var EncounterClasses = []CodedConcept{
	{System: "http://terminology.hl7.org/CodeSystem/v3-ActCode", Code: "AMB", Display: "ambulatory"},
	{System: "http://terminology.hl7.org/CodeSystem/v3-ActCode", Code: "EMER", Display: "emergency"},
	{System: "http://terminology.hl7.org/CodeSystem/v3-ActCode", Code: "IMP", Display: "inpatient encounter"},
	{System: "http://terminology.hl7.org/CodeSystem/v3-ActCode", Code: "VR", Display: "virtual"},
}

// EncounterStatuses are Encounter.status codes
var EncounterStatuses = []string{"planned", "in-progress", "finished", "cancelled"}

// EncounterReasons are free-text visit reasons
var EncounterReasons = []string{
	"Annual physical examination",
	"Follow-up of chronic condition",
	"Acute illness evaluation",
	"Medication review",
	"Laboratory results review",
	"Preoperative assessment",
	"Vaccination visit",
}

// AppointmentStatuses are Appointment.status codes
var AppointmentStatuses = []string{"booked", "fulfilled", "cancelled"}

// ObservationStatuses are Observation.status codes eligible for generation.
// Cancelled and entered-in-error are excluded so every generated observation
// carries a performer.
var ObservationStatuses = []string{"registered", "preliminary", "final", "amended"}

// ChiefComplaints seed clinical note content
var ChiefComplaints = []string{
	"chest pain", "shortness of breath", "abdominal pain", "headache",
	"fever and chills", "cough", "dizziness", "fatigue", "joint pain",
	"back pain", "nausea and vomiting", "sore throat",
}

// NoteAssessments seed clinical note content
var NoteAssessments = []string{
	"Acute upper respiratory infection",
	"Hypertension, well controlled",
	"Type 2 diabetes mellitus, stable",
	"Acute gastroenteritis",
	"Musculoskeletal strain",
	"Anxiety disorder",
	"Acute bronchitis",
}

// NotePlans seed clinical note content
var NotePlans = []string{
	"Continue current medications. Follow up in 2 weeks.",
	"Start new medication. Recheck in 1 week.",
	"Order laboratory tests. Follow up with results.",
	"Refer to specialist. Continue current treatment.",
	"Lifestyle modifications recommended. Follow up in 1 month.",
	"Physical therapy referral. Return if symptoms worsen.",
}

// ClinicKinds name the generated clinic organizations
var ClinicKinds = []string{"Community", "General", "Wellness"}

// Allergen pairs a coded substance with its AllergyIntolerance category
type Allergen struct {
	Category string
	Concept  CodedConcept
}

// Allergens are sample coded allergy substances across categories
var Allergens = []Allergen{
	{Category: "medication", Concept: CodedConcept{System: "http://www.nlm.nih.gov/research/umls/rxnorm", Code: "7980", Display: "Penicillin G"}},
	{Category: "medication", Concept: CodedConcept{System: "http://www.nlm.nih.gov/research/umls/rxnorm", Code: "1191", Display: "Aspirin"}},
	{Category: "medication", Concept: CodedConcept{System: "http://www.nlm.nih.gov/research/umls/rxnorm", Code: "10180", Display: "Sulfamethoxazole"}},
	{Category: "food", Concept: CodedConcept{System: "http://snomed.info/sct", Code: "256349002", Display: "Peanut"}},
	{Category: "food", Concept: CodedConcept{System: "http://snomed.info/sct", Code: "44027008", Display: "Shellfish"}},
	{Category: "food", Concept: CodedConcept{System: "http://snomed.info/sct", Code: "102263004", Display: "Egg protein"}},
	{Category: "environment", Concept: CodedConcept{System: "http://snomed.info/sct", Code: "232347008", Display: "House dust mite"}},
	{Category: "environment", Concept: CodedConcept{System: "http://snomed.info/sct", Code: "111088007", Display: "Latex"}},
	{Category: "environment", Concept: CodedConcept{System: "http://snomed.info/sct", Code: "264287008", Display: "Cat dander"}},
}

// AllergyManifestations are SNOMED CT reaction findings
var AllergyManifestations = []CodedConcept{
	{System: "http://snomed.info/sct", Code: "126485001", Display: "Urticaria"},
	{System: "http://snomed.info/sct", Code: "39579001", Display: "Anaphylaxis"},
	{System: "http://snomed.info/sct", Code: "41291007", Display: "Angioedema"},
	{System: "http://snomed.info/sct", Code: "422587007", Display: "Nausea"},
	{System: "http://snomed.info/sct", Code: "267036007", Display: "Dyspnea"},
	{System: "http://snomed.info/sct", Code: "271807003", Display: "Rash"},
}

// AllergyCriticalities are AllergyIntolerance.criticality codes
var AllergyCriticalities = []string{"low", "high", "unable-to-assess"}

// AllergySeverities are AllergyIntolerance.reaction.severity codes
var AllergySeverities = []string{"mild", "moderate", "severe"}

// AllergyClinicalStatuses are allergyintolerance-clinical codes
var AllergyClinicalStatuses = []string{"active", "inactive", "resolved"}

// Vaccines are CVX vaccine codes
var Vaccines = []CodedConcept{
	{System: "http://hl7.org/fhir/sid/cvx", Code: "140", Display: "Influenza, seasonal, injectable, preservative free"},
	{System: "http://hl7.org/fhir/sid/cvx", Code: "208", Display: "COVID-19, mRNA, LNP-S, PF, 30 mcg/0.3 mL dose"},
	{System: "http://hl7.org/fhir/sid/cvx", Code: "115", Display: "Tdap"},
	{System: "http://hl7.org/fhir/sid/cvx", Code: "03", Display: "MMR"},
	{System: "http://hl7.org/fhir/sid/cvx", Code: "43", Display: "Hep B, adult"},
	{System: "http://hl7.org/fhir/sid/cvx", Code: "33", Display: "Pneumococcal polysaccharide PPV23"},
}

// VaccineSites are v3-ActSite administration site codes
var VaccineSites = []CodedConcept{
	{System: "http://terminology.hl7.org/CodeSystem/v3-ActSite", Code: "LA", Display: "Left arm"},
	{System: "http://terminology.hl7.org/CodeSystem/v3-ActSite", Code: "RA", Display: "Right arm"},
}

// VaccineRoutes are v3-RouteOfAdministration codes
var VaccineRoutes = []CodedConcept{
	{System: "http://terminology.hl7.org/CodeSystem/v3-RouteOfAdministration", Code: "IM", Display: "Injection, intramuscular"},
	{System: "http://terminology.hl7.org/CodeSystem/v3-RouteOfAdministration", Code: "SC", Display: "Injection, subcutaneous"},
}

// AllergenForSubstance maps a free-text substance name from a patient profile
// onto a coded Allergen. Known medication and food keywords pick the matching
// category; anything else is treated as environmental.
func AllergenForSubstance(substance string) Allergen {
	lower := strings.ToLower(substance)
	concept := CodedConcept{System: "http://snomed.info/sct", Code: "UNKNOWN", Display: substance}

	for _, keyword := range []string{"penicillin", "aspirin", "ibuprofen", "sulfa", "medication", "drug"} {
		if strings.Contains(lower, keyword) {
			concept.System = "http://www.nlm.nih.gov/research/umls/rxnorm"
			return Allergen{Category: "medication", Concept: concept}
		}
	}
	for _, keyword := range []string{"peanut", "milk", "egg", "wheat", "soy", "fish", "shellfish", "tree nut"} {
		if strings.Contains(lower, keyword) {
			return Allergen{Category: "food", Concept: concept}
		}
	}
	return Allergen{Category: "environment", Concept: concept}
}
