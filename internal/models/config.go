package models

import (
	"fmt"
	"net/url"

	"github.com/synthfhir/synthfhir/internal/lib"
)

// Config is the top-level configuration for synthfhir
type Config struct {
	Generation GenerationConfig `yaml:"generation" json:"generation"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Retry      RetryConfig      `yaml:"retry" json:"retry"`
}

// GenerationConfig drives the synthetic record engine. It is resolved and
// validated once before generation starts; the engine never reads ambient
// state mid-run.
type GenerationConfig struct {
	Description string `yaml:"description" json:"description"`

	// Seed for the random source. 0 means derive from the current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// LibraryFile optionally points at a lab-definition JSON produced by
	// 'synthfhir loinc build'. Empty means use the compiled-in definitions.
	LibraryFile string `yaml:"library_file" json:"library_file"`

	BaseCounts      BaseCounts       `yaml:"base_counts" json:"base_counts"`
	PerPatient      PerPatient       `yaml:"per_patient" json:"per_patient"`
	PatientProfiles []PatientProfile `yaml:"patient_profiles" json:"patient_profiles"`
}

// BaseCounts are exact entity counts, not ranges
type BaseCounts struct {
	Clinics       int `yaml:"clinics" json:"clinics"`
	Practitioners int `yaml:"practitioners" json:"practitioners"`
	Patients      int `yaml:"patients" json:"patients"`
}

// CountRange is an inclusive [min, max] cardinality range sampled per patient
type CountRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// EncounterRange extends CountRange with the probability that each generated
// Encounter gets a clinical note (Binary + DocumentReference) attached
type EncounterRange struct {
	CountRange                   `yaml:",inline" json:",inline"`
	DocumentReferenceProbability float64 `yaml:"document_reference_probability" json:"document_reference_probability"`
}

// PerPatient holds one cardinality range per generated resource type
type PerPatient struct {
	Conditions          CountRange     `yaml:"conditions" json:"conditions"`
	Appointments        CountRange     `yaml:"appointments" json:"appointments"`
	MedicationRequests  CountRange     `yaml:"medication_requests" json:"medication_requests"`
	Procedures          CountRange     `yaml:"procedures" json:"procedures"`
	Observations        CountRange     `yaml:"observations" json:"observations"`
	Immunizations       CountRange     `yaml:"immunizations" json:"immunizations"`
	AllergyIntolerances CountRange     `yaml:"allergy_intolerances" json:"allergy_intolerances"`
	Encounters          EncounterRange `yaml:"encounters" json:"encounters"`
}

// PatientProfile pins demographics and fixed clinical history for one patient.
// When profiles are present the patient count equals the profile count and
// base_counts.patients is ignored.
type PatientProfile struct {
	FirstName   string         `yaml:"first_name" json:"first_name"`
	LastName    string         `yaml:"last_name" json:"last_name"`
	Gender      string         `yaml:"gender" json:"gender"`
	BirthDate   string         `yaml:"birth_date" json:"birth_date"` // YYYY-MM-DD
	Conditions  []CodedEntry   `yaml:"conditions" json:"conditions"`
	Medications []NamedEntry   `yaml:"medications" json:"medications"`
	Allergies   []AllergyEntry `yaml:"allergies" json:"allergies"`
}

// CodedEntry is a code/display pair for profile-pinned conditions
type CodedEntry struct {
	Code    string `yaml:"code" json:"code"`
	Display string `yaml:"display" json:"display"`
}

// NamedEntry is a plain-name entry for profile-pinned medications
type NamedEntry struct {
	Name string `yaml:"name" json:"name"`
}

// AllergyEntry is a free-text substance entry for profile-pinned allergies
type AllergyEntry struct {
	Substance string `yaml:"substance" json:"substance"`
}

// ServerConfig contains connection details for the target FHIR server
type ServerConfig struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// RetryConfig controls retry behavior for transient upload errors
type RetryConfig struct {
	MaxAttempts      int   `yaml:"max_attempts" json:"max_attempts"`
	InitialBackoffMs int64 `yaml:"initial_backoff_ms" json:"initial_backoff_ms"`
	MaxBackoffMs     int64 `yaml:"max_backoff_ms" json:"max_backoff_ms"`
}

// DefaultConfig returns a sensible default configuration. The generation
// defaults mirror a mid-size test dataset: a handful of clinics, a pool of
// practitioners and a few dozen patients with moderate clinical history.
func DefaultConfig() Config {
	return Config{
		Generation: GenerationConfig{
			Seed: 0,
			BaseCounts: BaseCounts{
				Clinics:       3,
				Practitioners: 10,
				Patients:      25,
			},
			PerPatient: PerPatient{
				Conditions:          CountRange{Min: 1, Max: 3},
				Appointments:        CountRange{Min: 1, Max: 5},
				MedicationRequests:  CountRange{Min: 1, Max: 4},
				Procedures:          CountRange{Min: 1, Max: 3},
				Observations:        CountRange{Min: 2, Max: 6},
				Immunizations:       CountRange{Min: 1, Max: 3},
				AllergyIntolerances: CountRange{Min: 1, Max: 4},
				Encounters: EncounterRange{
					CountRange:                   CountRange{Min: 1, Max: 4},
					DocumentReferenceProbability: 0.8,
				},
			},
		},
		Server: ServerConfig{
			BaseURL:        "",
			TimeoutSeconds: 30,
		},
		Retry: RetryConfig{
			MaxAttempts:      5,
			InitialBackoffMs: 1000,
			MaxBackoffMs:     30000,
		},
	}
}

// Validate checks the full configuration
func (c *Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return err
	}

	if c.Server.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Server.BaseURL); err != nil {
			return lib.ErrInvalidConfig("server.base_url", "base_url is not a valid URL")
		}
	}

	if c.Server.TimeoutSeconds < 0 {
		return lib.ErrInvalidConfig("server.timeout_seconds", "timeout_seconds must be >= 0")
	}

	return nil
}

// Validate checks counts, ranges and probabilities. It runs eagerly before
// any resource is created so an invalid configuration never yields a
// partial graph.
func (g *GenerationConfig) Validate() error {
	if g.BaseCounts.Clinics < 0 {
		return lib.ErrInvalidConfig("base_counts.clinics", "clinics count must be >= 0")
	}
	if g.BaseCounts.Practitioners < 0 {
		return lib.ErrInvalidConfig("base_counts.practitioners", "practitioners count must be >= 0")
	}
	if g.BaseCounts.Patients < 0 {
		return lib.ErrInvalidConfig("base_counts.patients", "patients count must be >= 0")
	}

	ranges := []struct {
		field string
		r     CountRange
	}{
		{"per_patient.conditions", g.PerPatient.Conditions},
		{"per_patient.appointments", g.PerPatient.Appointments},
		{"per_patient.medication_requests", g.PerPatient.MedicationRequests},
		{"per_patient.procedures", g.PerPatient.Procedures},
		{"per_patient.observations", g.PerPatient.Observations},
		{"per_patient.immunizations", g.PerPatient.Immunizations},
		{"per_patient.allergy_intolerances", g.PerPatient.AllergyIntolerances},
		{"per_patient.encounters", g.PerPatient.Encounters.CountRange},
	}
	for _, entry := range ranges {
		if err := entry.r.validate(entry.field); err != nil {
			return err
		}
	}

	prob := g.PerPatient.Encounters.DocumentReferenceProbability
	if prob < 0.0 || prob > 1.0 {
		return lib.ErrInvalidConfig(
			"per_patient.encounters.document_reference_probability",
			"document_reference_probability must be in [0.0, 1.0]",
		)
	}

	for i, profile := range g.PatientProfiles {
		if err := profile.validate(i); err != nil {
			return err
		}
	}

	return g.validateDependencies()
}

// validateDependencies rejects configurations whose guaranteed per-patient
// resources need base entities that will not exist, so generation stays total
// for every configuration that passes validation.
func (g *GenerationConfig) validateDependencies() error {
	if g.PatientCount() == 0 {
		return nil
	}

	noPractitioners := g.BaseCounts.Practitioners == 0
	noClinics := g.BaseCounts.Clinics == 0

	if g.PerPatient.Encounters.Min > 0 && (noPractitioners || noClinics) {
		return lib.ErrInvalidConfig(
			"per_patient.encounters",
			"encounters need base_counts.practitioners >= 1 and base_counts.clinics >= 1",
		)
	}
	if g.PerPatient.Appointments.Min > 0 && (noPractitioners || noClinics) {
		return lib.ErrInvalidConfig(
			"per_patient.appointments",
			"appointments need base_counts.practitioners >= 1 and base_counts.clinics >= 1",
		)
	}
	if g.PerPatient.MedicationRequests.Min > 0 && noPractitioners {
		return lib.ErrInvalidConfig(
			"per_patient.medication_requests",
			"medication requests need base_counts.practitioners >= 1",
		)
	}
	if g.PerPatient.Immunizations.Min > 0 && noPractitioners {
		return lib.ErrInvalidConfig(
			"per_patient.immunizations",
			"immunizations need base_counts.practitioners >= 1",
		)
	}
	if noPractitioners {
		for i, profile := range g.PatientProfiles {
			if len(profile.Medications) > 0 {
				return lib.ErrInvalidConfig(
					fmt.Sprintf("patient_profiles[%d].medications", i),
					"profile medications need base_counts.practitioners >= 1",
				)
			}
		}
	}

	return nil
}

func (r CountRange) validate(field string) error {
	if r.Min < 0 || r.Max < 0 {
		return lib.ErrInvalidConfig(field, field+" min and max must be >= 0")
	}
	if r.Min > r.Max {
		return lib.ErrInvalidConfig(field, field+" min must be <= max")
	}
	return nil
}

func (p PatientProfile) validate(index int) error {
	switch p.Gender {
	case "", "male", "female", "other", "unknown":
		return nil
	default:
		return lib.ErrInvalidConfig(
			fmt.Sprintf("patient_profiles[%d].gender", index),
			"profile gender must be one of male, female, other, unknown",
		)
	}
}

// PatientCount returns the number of patients to generate: the profile count
// when profiles are present, the base count otherwise
func (g *GenerationConfig) PatientCount() int {
	if len(g.PatientProfiles) > 0 {
		return len(g.PatientProfiles)
	}
	return g.BaseCounts.Patients
}
