package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResumeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/resume/parse", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"full_name":"Jane Roe","email":"jane@example.com","skills":["go","sql"]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, 5*time.Second)
	result := client.ParseResume(context.Background(), "Jane Roe\nSoftware Engineer")

	require.True(t, result.Parsed)
	require.NotNil(t, result.Resume)
	require.NotNil(t, result.Resume.FullName)
	assert.Equal(t, "Jane Roe", *result.Resume.FullName)
	require.NotNil(t, result.Resume.Email)
	assert.Equal(t, "jane@example.com", *result.Resume.Email)
	assert.Equal(t, []string{"go", "sql"}, result.Resume.Skills)
	assert.Nil(t, result.Resume.Phone)
}

func TestParseResumeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, 5*time.Second)
	result := client.ParseResume(context.Background(), "text")

	assert.False(t, result.Parsed)
	assert.Nil(t, result.Resume)
	assert.Contains(t, result.FailReason, "status 500")
}

func TestParseResumeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, 5*time.Second)
	result := client.ParseResume(context.Background(), "text")

	assert.False(t, result.Parsed)
	assert.Contains(t, result.FailReason, "decode response")
}

func TestParseResumeNotConfigured(t *testing.T) {
	client := NewClient("", "", 5*time.Second)

	assert.False(t, client.Enabled())

	result := client.ParseResume(context.Background(), "text")
	assert.False(t, result.Parsed)
	assert.Equal(t, "ai provider not configured", result.FailReason)
}

func TestParseResumeProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("test-key", srv.URL, time.Second)
	result := client.ParseResume(context.Background(), "text")

	assert.False(t, result.Parsed)
	assert.Contains(t, result.FailReason, "provider unreachable")
}
