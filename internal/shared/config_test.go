package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	for _, k := range []string{"HTTP_ADDR", "RATES_PATH", "RATES_ENCODING", "GOOGLE_API_KEY", "LLM_API_KEY", "ASSISTANT_CONTEXT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	c := Load()
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "rates.csv", c.RatesPath)
	assert.Equal(t, "utf-8", c.RatesEncoding)
	assert.Equal(t, ',', c.RatesDelimiter)
	assert.Equal(t, "gemini-1.5-flash", c.LLMModel)
	assert.Empty(t, c.LLMKey)
	assert.False(t, c.AssistantRequired)
	assert.True(t, c.AssistantIncludeHistory)
	assert.Equal(t, "selection", c.AssistantContext)
	assert.Equal(t, 4*time.Hour, c.SessionIdle)
	assert.Nil(t, c.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("LLM_API_KEY", "fallback-key")
	t.Setenv("RATES_DELIMITER", "semicolon")
	t.Setenv("ASSISTANT_REQUIRED", "true")
	t.Setenv("ASSISTANT_INCLUDE_HISTORY", "nope")
	t.Setenv("SESSION_IDLE_TIMEOUT_SECONDS", "60")
	t.Setenv("LLM_RPS", "abc")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local ,")

	c := Load()
	assert.Equal(t, "fallback-key", c.LLMKey)
	assert.Equal(t, ';', c.RatesDelimiter)
	assert.True(t, c.AssistantRequired)
	assert.True(t, c.AssistantIncludeHistory, "invalid boolean keeps the default")
	assert.Equal(t, time.Minute, c.SessionIdle)
	assert.Equal(t, 2, c.LLMRPS)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, c.CORSOrigins)
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, '\t', delimiter("tab"))
	assert.Equal(t, '|', delimiter("|"))
	assert.Equal(t, ',', delimiter(""))
}
