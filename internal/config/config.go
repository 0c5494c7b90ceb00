package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"roi-insight/internal/jira"
	"roi-insight/internal/roi"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira                jira.Config
	Analysis            roi.Options
	DataPath            string
	DatasetDir          string
	ExportDir           string
	HTTPAddr            string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir)
}

// FromEnv builds the configuration from the process environment only.
func FromEnv(exeDir string) (*AppConfig, error) {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	// The log directory is resolved by logging.ResolveDir before config loads.
	datasetDir := filepath.Join(dataPath, "datasets")
	exportDir := filepath.Join(dataPath, "exports")

	for _, dir := range []string{datasetDir, exportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create data directory")
		}
	}

	assumptions, err := loadAssumptions()
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:        getEnv("JIRA_URL", ""),
			Email:          getEnv("JIRA_EMAIL", ""),
			APIToken:       getEnv("JIRA_API_TOKEN", ""),
			StartDateField: getEnv("JIRA_START_DATE_FIELD", jira.DefaultStartDateField),
			RequestDelay:   time.Duration(getEnvInt("JIRA_REQUEST_DELAY_MS", 0)) * time.Millisecond,
			PageSize:       getEnvInt("JIRA_PAGE_SIZE", 100),
			MaxAttempts:    getEnvInt("JIRA_MAX_ATTEMPTS", 3),
		},
		Analysis: roi.Options{
			Assumptions: assumptions,
			KeepUndated: getEnvBool("ROI_KEEP_UNDATED", false),
		},
		DataPath:            dataPath,
		DatasetDir:          datasetDir,
		ExportDir:           exportDir,
		HTTPAddr:            getEnv("HTTP_ADDR", ":5001"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", true),
	}

	return cfg, nil
}

// loadAssumptions layers defaults, then environment variables, then the optional YAML file.
func loadAssumptions() (roi.Assumptions, error) {
	a := roi.DefaultAssumptions()
	a.EngineerAnnualCost = getEnvFloat("ROI_ENGINEER_ANNUAL_COST", a.EngineerAnnualCost)
	a.HoursPerDay = getEnvFloat("ROI_HOURS_PER_DAY", a.HoursPerDay)
	a.WorkingDaysPerYear = getEnvFloat("ROI_WORKING_DAYS_PER_YEAR", a.WorkingDaysPerYear)

	if path := os.Getenv("ROI_ASSUMPTIONS_FILE"); path != "" {
		var err error
		a, err = LoadAssumptionsFile(path, a)
		if err != nil {
			return a, err
		}
	}

	if err := a.Validate(); err != nil {
		return a, err
	}
	return a, nil
}

// LoadAssumptionsFile overlays the keys present in a YAML file onto base.
func LoadAssumptionsFile(path string, base roi.Assumptions) (roi.Assumptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read assumptions file: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("failed to parse assumptions file %s: %w", path, err)
	}
	log.Debug().Str("path", path).Float64("hourlyRate", out.HourlyRate()).Msg("Loaded cost assumptions")
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}
