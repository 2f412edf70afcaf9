package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Storage
	OutputDir     string
	CatalogDBPath string

	// Document defaults
	ProjectName  string
	SiteName     string
	BuildingName string
	StoreyName   string
	CoreMode     string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3003"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		OutputDir:     getEnv("OUTPUT_DIR", "data/documents"),
		CatalogDBPath: getEnv("CATALOG_DB_PATH", "data/db/catalog.db"),

		ProjectName:  getEnv("PROJECT_NAME", "My Project"),
		SiteName:     getEnv("SITE_NAME", "My Site"),
		BuildingName: getEnv("BUILDING_NAME", "Building A"),
		StoreyName:   getEnv("STOREY_NAME", "Ground Floor"),
		CoreMode:     getEnv("CORE_MODE", "leading"),
	}
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
