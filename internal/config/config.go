package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	APIStyleResponses = "responses"
	APIStyleChat      = "chat"
)

type Config struct {
	Host           string
	Port           string
	AllowedOrigins []string
	// OpenAI
	OpenAIAPIKey  string
	Model         string
	OpenAIBaseURL string
	// APIStyle selects the outbound client: "responses" or "chat"
	APIStyle string
	Timeout  time.Duration
	// Request handling
	MaxInputChars  int
	PromptsFile    string
	StrictCommands bool
	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads .env (if present) and the process environment once. The returned
// value is never mutated afterwards.
func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Host:           getEnvDefault("HOST", "127.0.0.1"),
		Port:           getEnvDefault("PORT", "3000"),
		AllowedOrigins: getEnvListDefault("ALLOWED_ORIGIN", []string{"*"}),
		OpenAIAPIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:          getEnvDefault("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL:  strings.TrimRight(getEnvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		APIStyle:       getEnvChoiceDefault("OPENAI_API_STYLE", APIStyleResponses, APIStyleResponses, APIStyleChat),
		Timeout:        getEnvDurationDefault("OPENAI_TIMEOUT", 45*time.Second),
		MaxInputChars:  getEnvIntDefault("MAX_INPUT_CHARS", 12000),
		PromptsFile:    os.Getenv("PROMPTS_FILE"),
		StrictCommands: getEnvBoolDefault("STRICT_COMMANDS", true),
		LogLevel:       getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvChoiceDefault("LOG_FORMAT", "console", "console", "json"),
		LogFile:        os.Getenv("LOG_FILE"),
	}
	return cfg
}

// KeyLoaded reports whether an API key was present at startup.
func (c Config) KeyLoaded() bool { return c.OpenAIAPIKey != "" }

func (c Config) Addr() string { return c.Host + ":" + c.Port }

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvChoiceDefault(key, def string, choices ...string) string {
	v := strings.ToLower(getEnvDefault(key, def))
	for _, c := range choices {
		if v == c {
			return v
		}
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// getEnvDurationDefault accepts Go durations ("45s") or a bare number of seconds.
func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
