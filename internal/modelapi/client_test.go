package modelapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fever, headache", body["symptoms"])
		assert.Equal(t, "12", body["user_id"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Result{
			Disease:     "Malaria",
			Confidence:  0.87,
			Precautions: []string{"Use mosquito nets while sleeping"},
			Lang:        "en",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Predict(context.Background(), "fever, headache", "12")
	assert.NoError(t, err)
	assert.Equal(t, "Malaria", result.Disease)
	assert.InDelta(t, 0.87, result.Confidence, 0.001)
	assert.Len(t, result.Precautions, 1)
}

func TestClientPredictAnonymousOmitsUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasUserID := body["user_id"]
		assert.False(t, hasUserID)

		json.NewEncoder(w).Encode(Result{Disease: "Common Cold", Confidence: 0.5})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Predict(context.Background(), "sneezing", "")
	assert.NoError(t, err)
	assert.Equal(t, "Common Cold", result.Disease)
}

func TestClientPredictUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Predict(context.Background(), "fever", "")
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "500")
}

func TestClientPredictUnclearPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{
			Error:      "System confidence too low (12%). Please provide more details.",
			IsUnclear:  true,
			Confidence: 0.12,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Predict(context.Background(), "meh", "")
	assert.NoError(t, err)
	assert.True(t, result.IsUnclear)
	assert.Empty(t, result.Disease)
}

func TestClientCheckHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(Health{Status: "healthy", ModelLoaded: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	health := client.CheckHealth(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ModelLoaded)
}

func TestClientCheckHealthUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	health := client.CheckHealth(context.Background())
	assert.Equal(t, "error", health.Status)
	assert.NotEmpty(t, health.Message)
}
