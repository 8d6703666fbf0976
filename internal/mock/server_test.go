package mock

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, GeneratePath, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerate(t *testing.T) {
	h := NewServer(0, 0, nil).Handler()

	rec := post(t, h, `{"prompt":"hello","model":"m","max_tokens":500}`)
	require.Equal(t, http.StatusOK, rec.Code)

	text := gjson.Get(rec.Body.String(), "generations.0.text")
	require.True(t, text.Exists())
	assert.Equal(t, Reply("hello"), strings.TrimSpace(text.String()))
	assert.True(t, strings.HasPrefix(text.String(), " "), "mock pads its output")
}

func TestGenerateLimitsWords(t *testing.T) {
	h := NewServer(0, 0, nil).Handler()

	rec := post(t, h, `{"prompt":"long please","max_tokens":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	text := strings.TrimSpace(gjson.Get(rec.Body.String(), "generations.0.text").String())
	assert.Len(t, strings.Fields(text), 3)
}

func TestGenerateErrors(t *testing.T) {
	h := NewServer(0, 0, nil).Handler()

	assert.Equal(t, http.StatusBadRequest, post(t, h, `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, h, `{"prompt":"  "}`).Code)
	assert.Equal(t, http.StatusInternalServerError, post(t, h, `{"prompt":"please fail"}`).Code)

	req := httptest.NewRequest(http.MethodGet, GeneratePath, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	h := NewServer(0, 0, nil).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
}
