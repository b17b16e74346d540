package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Retry     RetryConfig
	Retrieval RetrievalConfig
	Reference ReferenceConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey             string
	ScoreTemperature   float32
	SummaryTemperature float32
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency int
}

type RetryConfig struct {
	Delays []time.Duration
	Jitter time.Duration
}

// RetrievalConfig selects the retriever backend: "local" scans the embeddings
// table, "qdrant" delegates similarity search to a qdrant collection.
type RetrievalConfig struct {
	Backend string
	TopK    int
}

type ReferenceConfig struct {
	JobDescriptionPath string
	RubricPath         string
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
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ai_cv_evaluator"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_evaluator_docs"),
		},
		Gemini: GeminiConfig{
			APIKey:             getEnv("GEMINI_API_KEY", ""),
			ScoreTemperature:   getEnvAsFloat32("GEN_SCORE_TEMPERATURE", 0.7),
			SummaryTemperature: getEnvAsFloat32("GEN_SUMMARY_TEMPERATURE", 0.3),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
		},
		Retry: RetryConfig{
			Delays: getEnvAsDurations("RETRY_BACKOFF_DELAYS", "500ms,1s,2s"),
			Jitter: getEnvAsDuration("RETRY_JITTER", "250ms"),
		},
		Retrieval: RetrievalConfig{
			Backend: getEnv("RETRIEVAL_BACKEND", "local"),
			TopK:    getEnvAsInt("RETRIEVAL_TOP_K", 4),
		},
		Reference: ReferenceConfig{
			JobDescriptionPath: getEnv("REFERENCE_JOBDESC_PATH", "./reference_docs/job_description.pdf"),
			RubricPath:         getEnv("REFERENCE_RUBRIC_PATH", "./reference_docs/scoring_rubric.txt"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
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

func getEnvAsDurations(key string, defaultValue string) []time.Duration {
	valueStr := getEnv(key, defaultValue)

	parse := func(s string) []time.Duration {
		var durations []time.Duration
		for _, part := range strings.Split(s, ",") {
			duration, err := time.ParseDuration(strings.TrimSpace(part))
			if err != nil {
				return nil
			}
			durations = append(durations, duration)
		}
		return durations
	}

	if durations := parse(valueStr); durations != nil {
		return durations
	}
	return parse(defaultValue)
}
