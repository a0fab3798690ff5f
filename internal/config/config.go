// Package config carries the tunable planning parameters, sourced from the
// environment with an optional .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the planner tunables. Zero-config runs get the documented
// defaults.
type Config struct {
	DataDir          string  // directory holding the population CSV layouts
	MatchThreshold   int     // fuzzy token-sort acceptance score
	PartialThreshold int     // fuzzy partial acceptance score
	AvgHouseholdSize float64 // people per household for net demand
}

// Load reads configuration from the environment. A .env file in the working
// directory or its parents is applied first without overriding variables
// already set.
func Load() *Config {
	// Best effort: absence of a .env file is not an error.
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	return &Config{
		DataDir:          GetEnv("WARD_DATA_DIR", "data"),
		MatchThreshold:   GetEnvInt("WARD_MATCH_THRESHOLD", 75),
		PartialThreshold: GetEnvInt("WARD_PARTIAL_THRESHOLD", 90),
		AvgHouseholdSize: GetEnvFloat("WARD_AVG_HOUSEHOLD_SIZE", 5.0),
	}
}

// GetEnv gets a string environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets a float environment variable with a default.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
