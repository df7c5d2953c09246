package shared

import (
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration
	CORSOrigins    []string

	RatesPath      string
	RatesEncoding  string // decodes sheets that are not valid UTF-8
	RatesDelimiter rune

	LLMBaseURL string
	LLMModel   string
	LLMKey     string
	LLMRPS     int
	LLMTimeout time.Duration // 0 waits for the model as long as it takes

	AssistantRequired       bool
	AssistantContext        string
	AssistantIncludeHistory bool

	SessionIdle time.Duration
}

// Load reads the environment, after an optional .env in the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		CORSOrigins:    list("CORS_ORIGINS"),

		RatesPath:      env("RATES_PATH", "rates.csv"),
		RatesEncoding:  env("RATES_ENCODING", "utf-8"),
		RatesDelimiter: delimiter(env("RATES_DELIMITER", ",")),

		LLMBaseURL: env("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		LLMModel:   env("LLM_MODEL", "gemini-1.5-flash"),
		LLMKey:     env("GOOGLE_API_KEY", env("LLM_API_KEY", "")),
		LLMRPS:     atoi("LLM_RPS", 2),
		LLMTimeout: time.Duration(atoi("LLM_TIMEOUT_SECONDS", 0)) * time.Second,

		AssistantRequired:       boolean("ASSISTANT_REQUIRED", false),
		AssistantContext:        env("ASSISTANT_CONTEXT", "selection"),
		AssistantIncludeHistory: boolean("ASSISTANT_INCLUDE_HISTORY", true),

		SessionIdle: time.Duration(atoi("SESSION_IDLE_TIMEOUT_SECONDS", 4*3600)) * time.Second,
	}
	if c.LLMKey == "" {
		log.Warn().Msg("GOOGLE_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid integer, using default")
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Warn().Str("key", k).Str("value", v).Bool("default", def).Msg("invalid boolean, using default")
	}
	return def
}

func list(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// delimiter accepts a single character or the words "tab" and "semicolon".
func delimiter(s string) rune {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t'
	case "semicolon":
		return ';'
	}
	if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
		return r
	}
	return ','
}
