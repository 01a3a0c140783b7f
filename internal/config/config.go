package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Board BoardConfig
	Store StoreConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	OwnerSecret        string
}

// BoardConfig carries the addressing parameters consumed once at session
// start (see Session). The agent serves exactly one board per process.
type BoardConfig struct {
	ProjectId  string
	BoardId    string
	BackendURL string
	Mode       string // "view" enables view-only
	Theme      string // "light" | "dark"
	Zen        bool
	Grid       bool
	Controls   bool
}

type StoreConfig struct {
	DataDir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "agent.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			OwnerSecret:        getEnv("BOARD_OWNER_SECRET", ""),
		},
		Board: BoardConfig{
			ProjectId:  getEnv("PROJECT_ID", ""),
			BoardId:    getEnv("BOARD_ID", "default"),
			BackendURL: getEnv("BACKEND_URL", "http://localhost:8080"),
			Mode:       getEnv("MODE", ""),
			Theme:      getEnv("THEME", "light"),
			Zen:        getEnvAsBool("ZEN", false),
			Grid:       getEnvAsBool("GRID", false),
			Controls:   getEnvAsBool("CONTROLS", false),
		},
		Store: StoreConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if strValue == "1" || strValue == "true" {
		return true
	}
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
