package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// AI (OpenAI-compatible protocol)
	AIProvider       string // Provider identifier: openai, deepseek, openrouter, ollama, or any compatible base URL
	AIAPIKey         string // API key for the model provider; AI features are disabled when empty
	AIBaseURL        string // Base URL override (has a default per provider)
	AIModel          string // Model name: gpt-4o, deepseek-chat, etc.
	AITimeoutSeconds int    // Per-call timeout for model requests (default: 30)

	// Cache
	CacheDSN        string // Redis connection string; empty selects the in-process cache
	CacheTTLSeconds int    // Suggestion cache entry TTL (default: 21600, 6 hours)

	// HTTP
	AllowedOrigins []string // CORS origins

	// Server
	Mode    string
	Addr    string
	Port    int
	Data    string
	Driver  string
	DSN     string
	Version string
}

// Provider default configurations for the model gateway.
// Used when the base URL or model is not explicitly set.
var aiProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "deepseek/deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if a model API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AIProvider = getEnvOrDefault("DEFTERLY_AI_PROVIDER", "openai")
	p.AIAPIKey = getEnvOrDefault("DEFTERLY_AI_API_KEY", "")
	p.AIBaseURL = getEnvOrDefault("DEFTERLY_AI_BASE_URL", "")
	p.AIModel = getEnvOrDefault("DEFTERLY_AI_MODEL", "")
	p.AITimeoutSeconds = getEnvOrDefaultInt("DEFTERLY_AI_TIMEOUT_SECONDS", 30)

	if _, ok := aiProviderDefaults[p.AIProvider]; !ok {
		slog.Warn("unknown AI provider, using default: openai", "provider", p.AIProvider)
		p.AIProvider = "openai"
	}
	if defaults, ok := aiProviderDefaults[p.AIProvider]; ok {
		if p.AIBaseURL == "" {
			p.AIBaseURL = defaults.BaseURL
		}
		if p.AIModel == "" {
			p.AIModel = defaults.Model
		}
	}

	p.CacheDSN = getEnvOrDefault("DEFTERLY_CACHE_DSN", "")
	p.CacheTTLSeconds = getEnvOrDefaultInt("DEFTERLY_CACHE_TTL_SECONDS", 21600)

	origins := getEnvOrDefault("DEFTERLY_ALLOWED_ORIGINS", "http://localhost:3000")
	p.AllowedOrigins = p.AllowedOrigins[:0]
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			p.AllowedOrigins = append(p.AllowedOrigins, origin)
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "postgres" && p.Driver != "sqlite" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.AITimeoutSeconds <= 0 {
		p.AITimeoutSeconds = 30
	}
	if p.CacheTTLSeconds <= 0 {
		p.CacheTTLSeconds = 21600
	}

	if p.Driver == "sqlite" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			dbFile := fmt.Sprintf("defterly_%s.db", p.Mode)
			p.DSN = filepath.Join(dataDir, dbFile)
		}
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn required for postgres driver")
	}

	return nil
}
