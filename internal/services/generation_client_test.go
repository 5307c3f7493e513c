package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTimeouts() GenerationTimeouts {
	return GenerationTimeouts{
		Deck:       time.Second,
		LessonPlan: time.Second,
		Activity:   time.Second,
		Topic:      time.Second,
		Doubt:      time.Second,
	}
}

func deckParams() GenerateParams {
	return GenerateParams{
		ContentType: models.ContentTypeDeck,
		Subject:     "Physics",
		GradeLevel:  "10",
		Chapter:     "Optics",
	}
}

func TestGenerateDecodesAndOrdersItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deck", req["content_type"])
		assert.Equal(t, "Optics", req["chapter"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"title": "Light and Optics",
			"items": []map[string]interface{}{
				{"title": "Refraction", "content": "lenses", "order": 2},
				{"title": "Reflection", "content": "mirrors", "order": 1},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	content, err := client.Generate(context.Background(), deckParams())

	require.NoError(t, err)
	assert.Equal(t, "Light and Optics", content.Title)
	require.Len(t, content.Items, 2)
	assert.Equal(t, "Reflection", content.Items[0].Title)
	assert.Equal(t, "Refraction", content.Items[1].Title)
}

func TestGenerateAcceptsSlidesAlias(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":  "Deck",
			"slides": []map[string]interface{}{{"title": "s1", "content": "c", "order": 1}},
		})
	}))
	defer server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	content, err := client.Generate(context.Background(), deckParams())

	require.NoError(t, err)
	require.Len(t, content.Items, 1)
	assert.Equal(t, "s1", content.Items[0].Title)
}

func TestGenerateSurfacesUpstreamErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
	}))
	defer server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	_, err := client.Generate(context.Background(), deckParams())

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, apperrors.ErrorTypeServiceUnavailable, customErr.Type)
	assert.True(t, customErr.Retryable)
	assert.Equal(t, "quota exceeded", customErr.Message)
}

func TestGenerateUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	_, err := client.Generate(context.Background(), deckParams())

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, apperrors.ErrorTypeServiceUnavailable, customErr.Type)
}

func TestGenerateTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	timeouts := testTimeouts()
	timeouts.Deck = 50 * time.Millisecond
	client := NewHTTPGenerationClient(server.URL, timeouts)

	_, err := client.Generate(context.Background(), deckParams())

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, apperrors.ErrorTypeServiceUnavailable, customErr.Type)
}

func TestGenerateWithoutBaseURL(t *testing.T) {
	client := NewHTTPGenerationClient("", testTimeouts())
	_, err := client.Generate(context.Background(), deckParams())

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, apperrors.ErrorTypeNotConfigured, customErr.Type)
}

func TestGenerateRejectsIncompleteResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"title": "no items"})
	}))
	defer server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	_, err := client.Generate(context.Background(), deckParams())

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, apperrors.ErrorTypeServiceUnavailable, customErr.Type)
}

func TestSolveDoubt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/doubt", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "why is the sky blue", req["question"])

		json.NewEncoder(w).Encode(map[string]string{"answer": "Rayleigh scattering"})
	}))
	defer server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	answer, err := client.SolveDoubt(context.Background(), "why is the sky blue", "Physics", "10")

	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering", answer)
}

func TestModifySendsCurrentStateAndFeedback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/modify", r.URL.Path)

		var req modifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "make it shorter", req.Feedback)
		assert.Len(t, req.Items, 2)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"title": "Shorter",
			"items": []map[string]interface{}{{"title": "only", "content": "slide", "order": 1}},
		})
	}))
	defer server.Close()

	client := NewHTTPGenerationClient(server.URL, testTimeouts())
	revised, err := client.Modify(context.Background(), models.ContentTypeDeck, &GeneratedContent{
		Title: "Long",
		Items: []GeneratedItem{{Title: "a"}, {Title: "b"}},
	}, "make it shorter")

	require.NoError(t, err)
	assert.Equal(t, "Shorter", revised.Title)
	assert.Len(t, revised.Items, 1)
}
