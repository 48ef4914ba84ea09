package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	Env    string
	LLM    LLMConfig
	GitHub GitHubConfig
}

type LLMConfig struct {
	APIKey      string
	Model       string
	RPS         float64
	Burst       int
	MaxAttempts int
	RetryBase   time.Duration
}

type GitHubConfig struct {
	Token  string
	APIURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:   *port,
		Env:    env,
		LLM:    loadLLMConfig(),
		GitHub: loadGitHubConfig(),
	}, nil
}

func loadLLMConfig() LLMConfig {
	return LLMConfig{
		APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:       firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
		RPS:         envFloat("LLM_RPS", 0),
		Burst:       envInt("LLM_BURST", 0),
		MaxAttempts: envInt("LLM_MAX_ATTEMPTS", 5),
		RetryBase:   time.Duration(envInt("LLM_RETRY_BASE_MS", 1000)) * time.Millisecond,
	}
}

func loadGitHubConfig() GitHubConfig {
	return GitHubConfig{
		Token:  strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		APIURL: strings.TrimSpace(os.Getenv("GITHUB_API_URL")),
	}
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
