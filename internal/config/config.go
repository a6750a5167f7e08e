package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds service configuration derived from environment variables.
type Config struct {
	HTTPPort string
	StaticDir string

	ModelPath      string
	ORTLibraryPath string

	GeminiAPIKey string
	GeminiModel  string

	Earth911APIKey  string
	Earth911BaseURL string

	WebhookURL string

	S3Bucket string
	S3Region string
	S3Prefix string
}

const (
	defaultPort      = ":8888"
	defaultStaticDir = "static"
	defaultModelPath = "model/trash_classifier.onnx"
	defaultGeminiModel  = "gemini-1.5-flash"
	defaultEarth911Base = "https://api.earth911.com"
	defaultS3Prefix     = "misclassified-images"
)

// Load reads configuration from environment variables and applies sane
// defaults. Credentials are not required here: commands validate the
// keys they actually need so, for example, eval runs without a Gemini
// key.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        getenv("PORT", defaultPort),
		StaticDir:       getenv("STATIC_DIR", defaultStaticDir),
		ModelPath:       getenv("MODEL_PATH", defaultModelPath),
		ORTLibraryPath:  os.Getenv("ONNXRUNTIME_LIB"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getenv("GEMINI_MODEL", defaultGeminiModel),
		Earth911APIKey:  os.Getenv("EARTH911_API_KEY"),
		Earth911BaseURL: getenv("EARTH911_BASE_URL", defaultEarth911Base),
		WebhookURL:      os.Getenv("WEBHOOK_URL"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getenv("S3_REGION", os.Getenv("AWS_REGION")),
		S3Prefix:        getenv("S3_PREFIX", defaultS3Prefix),
	}

	if !strings.HasPrefix(cfg.HTTPPort, ":") {
		cfg.HTTPPort = ":" + cfg.HTTPPort
	}
	if cfg.Earth911BaseURL != "" {
		cfg.Earth911BaseURL = strings.TrimRight(cfg.Earth911BaseURL, "/")
	}
	if cfg.S3Bucket != "" && cfg.S3Region == "" {
		return Config{}, fmt.Errorf("S3_BUCKET is set but no S3_REGION or AWS_REGION given")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
