package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Missing-key errors surfaced before the pipeline can start.
var (
	ErrMissingTranscriptionKey = errors.New("ASSEMBLYAI_API_KEY is not configured")
	ErrMissingGeminiKey        = errors.New("GEMINI_API_KEY is not configured")
	ErrMissingOpenAIKey        = errors.New("OPENAI_API_KEY is not configured")
)

type Config struct {
	Server        ServerConfig
	Transcription TranscriptionConfig
	Model         ModelConfig
	Storage       StorageConfig
	Worker        WorkerConfig
	Log           LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type TranscriptionConfig struct {
	APIKey        string
	BaseURL       string
	UploadTimeout time.Duration
	PollInterval  time.Duration
	PollCeiling   time.Duration
}

type ModelConfig struct {
	Provider     string // "gemini" or "openai"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	MaxRetries   int
	RetryDelay   time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Transcription: TranscriptionConfig{
			APIKey:        getEnv("ASSEMBLYAI_API_KEY", ""),
			BaseURL:       getEnv("ASSEMBLYAI_BASE_URL", "https://api.assemblyai.com/v2"),
			UploadTimeout: getEnvAsDuration("TRANSCRIPTION_UPLOAD_TIMEOUT", "5m"),
			PollInterval:  getEnvAsDuration("TRANSCRIPTION_POLL_INTERVAL", "2s"),
			PollCeiling:   getEnvAsDuration("TRANSCRIPTION_POLL_CEILING", "30m"),
		},
		Model: ModelConfig{
			Provider:     getEnv("MODEL_PROVIDER", "gemini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxRetries:   getEnvAsInt("ANALYSIS_MAX_RETRIES", 3),
			RetryDelay:   getEnvAsDuration("ANALYSIS_RETRY_DELAY", "2s"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 104857600),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 1),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// Validate checks that both provider secrets are present for the selected
// model provider. Called at startup so a missing key never surfaces as a
// mid-pipeline failure.
func (c *Config) Validate() error {
	if c.Transcription.APIKey == "" {
		return ErrMissingTranscriptionKey
	}

	switch c.Model.Provider {
	case "gemini":
		if c.Model.GeminiAPIKey == "" {
			return ErrMissingGeminiKey
		}
	case "openai":
		if c.Model.OpenAIAPIKey == "" {
			return ErrMissingOpenAIKey
		}
	default:
		return fmt.Errorf("unknown model provider %q: must be gemini or openai", c.Model.Provider)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
