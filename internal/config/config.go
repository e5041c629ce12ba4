package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Ledger storage
	DataBackend string
	LedgerPath  string

	// Logging
	LogLevel string

	// Google Sheets mirror
	GoogleSpreadsheetID string
	GoogleSheetName     string
	MirrorInterval      time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend: getEnv("DATA_BACKEND", "csv"),
		LedgerPath:  getEnv("LEDGER_PATH", "expenses.csv"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),
		MirrorInterval:      getEnvDuration("MIRROR_INTERVAL", 5*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"csv", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate ledger file configuration if backend is csv
	if c.DataBackend == "csv" {
		if c.LedgerPath == "" {
			problems = append(problems, "ledger path cannot be empty when using the csv backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.LedgerPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						problems = append(problems, fmt.Sprintf("cannot create ledger directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	// Validate mirror interval
	if c.MirrorInterval < time.Second {
		problems = append(problems, fmt.Sprintf("invalid mirror interval %v: must be at least 1 second", c.MirrorInterval))
	} else if c.MirrorInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid mirror interval %v: must be at most 24 hours", c.MirrorInterval))
	}

	// Return combined problems
	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// ValidateMirror checks the additional settings the sheet mirror worker
// needs on top of Validate.
func (c *Config) ValidateMirror() error {
	var problems []string

	if c.GoogleSpreadsheetID == "" {
		problems = append(problems, "GOOGLE_SPREADSHEET_ID is required for the sheet mirror")
	}
	if c.GoogleSheetName == "" {
		problems = append(problems, "GOOGLE_SHEET_NAME cannot be empty for the sheet mirror")
	}

	if len(problems) > 0 {
		return fmt.Errorf("mirror configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
