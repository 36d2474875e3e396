package services

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/synthfhir/synthfhir/internal/models"
)

// LoadConfig loads configuration from file, environment and defaults.
// Priority order (highest to lowest):
//  1. CLI flags (via viper bindings)
//  2. Environment variables (SYNTHFHIR_ prefix)
//  3. .env file
//  4. Configuration file
//  5. Default values
func LoadConfig(configFile string) (*models.Config, error) {
	// A .env file next to the binary feeds the environment before viper reads it
	_ = godotenv.Load()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("synthfhir")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/synthfhir")
		viper.AddConfigPath("/etc/synthfhir")
	}

	viper.SetEnvPrefix("SYNTHFHIR")
	viper.AutomaticEnv()

	setDefaults(models.DefaultConfig())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - defaults and environment only
	}

	// Build config manually from viper values
	// (Viper.Unmarshal has issues with nested structs in some versions)
	config := models.Config{
		Generation: models.GenerationConfig{
			Description: viper.GetString("generation.description"),
			Seed:        viper.GetUint64("generation.seed"),
			LibraryFile: viper.GetString("generation.library_file"),
			BaseCounts: models.BaseCounts{
				Clinics:       viper.GetInt("generation.base_counts.clinics"),
				Practitioners: viper.GetInt("generation.base_counts.practitioners"),
				Patients:      viper.GetInt("generation.base_counts.patients"),
			},
			PerPatient: models.PerPatient{
				Conditions:          countRange("generation.per_patient.conditions"),
				Appointments:        countRange("generation.per_patient.appointments"),
				MedicationRequests:  countRange("generation.per_patient.medication_requests"),
				Procedures:          countRange("generation.per_patient.procedures"),
				Observations:        countRange("generation.per_patient.observations"),
				Immunizations:       countRange("generation.per_patient.immunizations"),
				AllergyIntolerances: countRange("generation.per_patient.allergy_intolerances"),
				Encounters: models.EncounterRange{
					CountRange:                   countRange("generation.per_patient.encounters"),
					DocumentReferenceProbability: viper.GetFloat64("generation.per_patient.encounters.document_reference_probability"),
				},
			},
		},
		Server: models.ServerConfig{
			BaseURL:        viper.GetString("server.base_url"),
			TimeoutSeconds: viper.GetInt("server.timeout_seconds"),
		},
		Retry: models.RetryConfig{
			MaxAttempts:      viper.GetInt("retry.max_attempts"),
			InitialBackoffMs: viper.GetInt64("retry.initial_backoff_ms"),
			MaxBackoffMs:     viper.GetInt64("retry.max_backoff_ms"),
		},
	}

	// Patient profiles are a list of nested maps; a JSON round-trip maps
	// them onto the typed struct
	if raw := viper.Get("generation.patient_profiles"); raw != nil {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse patient_profiles: %w", err)
		}
		if err := json.Unmarshal(data, &config.Generation.PatientProfiles); err != nil {
			return nil, fmt.Errorf("failed to parse patient_profiles: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func countRange(key string) models.CountRange {
	return models.CountRange{
		Min: viper.GetInt(key + ".min"),
		Max: viper.GetInt(key + ".max"),
	}
}

func setDefaults(defaults models.Config) {
	viper.SetDefault("generation.seed", defaults.Generation.Seed)
	viper.SetDefault("generation.base_counts.clinics", defaults.Generation.BaseCounts.Clinics)
	viper.SetDefault("generation.base_counts.practitioners", defaults.Generation.BaseCounts.Practitioners)
	viper.SetDefault("generation.base_counts.patients", defaults.Generation.BaseCounts.Patients)
	setRangeDefault("generation.per_patient.conditions", defaults.Generation.PerPatient.Conditions)
	setRangeDefault("generation.per_patient.appointments", defaults.Generation.PerPatient.Appointments)
	setRangeDefault("generation.per_patient.medication_requests", defaults.Generation.PerPatient.MedicationRequests)
	setRangeDefault("generation.per_patient.procedures", defaults.Generation.PerPatient.Procedures)
	setRangeDefault("generation.per_patient.observations", defaults.Generation.PerPatient.Observations)
	setRangeDefault("generation.per_patient.immunizations", defaults.Generation.PerPatient.Immunizations)
	setRangeDefault("generation.per_patient.allergy_intolerances", defaults.Generation.PerPatient.AllergyIntolerances)
	setRangeDefault("generation.per_patient.encounters", defaults.Generation.PerPatient.Encounters.CountRange)
	viper.SetDefault("generation.per_patient.encounters.document_reference_probability",
		defaults.Generation.PerPatient.Encounters.DocumentReferenceProbability)
	viper.SetDefault("server.base_url", defaults.Server.BaseURL)
	viper.SetDefault("server.timeout_seconds", defaults.Server.TimeoutSeconds)
	viper.SetDefault("retry.max_attempts", defaults.Retry.MaxAttempts)
	viper.SetDefault("retry.initial_backoff_ms", defaults.Retry.InitialBackoffMs)
	viper.SetDefault("retry.max_backoff_ms", defaults.Retry.MaxBackoffMs)
}

func setRangeDefault(key string, r models.CountRange) {
	viper.SetDefault(key+".min", r.Min)
	viper.SetDefault(key+".max", r.Max)
}
