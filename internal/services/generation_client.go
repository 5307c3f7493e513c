package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/EDU-jjkr/EDUAI/internal/errors"
	"github.com/EDU-jjkr/EDUAI/internal/models"

	"github.com/rs/zerolog/log"
)

// GeneratedItem is one slide, section, step or point as returned upstream.
type GeneratedItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// GeneratedContent is the typed result decoded once at the service-call
// boundary; everything past the client works with this shape only.
type GeneratedContent struct {
	Title string          `json:"title"`
	Items []GeneratedItem `json:"items"`
}

// GenerateParams are the content parameters forwarded upstream.
type GenerateParams struct {
	ContentType    models.ContentType
	Subject        string
	GradeLevel     string
	Chapter        string
	Topics         []string
	ChapterContent string
}

// GenerationTimeouts bound each upstream call by content type.
type GenerationTimeouts struct {
	Deck       time.Duration
	LessonPlan time.Duration
	Activity   time.Duration
	Topic      time.Duration
	Doubt      time.Duration
}

// HTTPGenerationClient talks to the generation microservice over JSON/HTTP.
type HTTPGenerationClient struct {
	baseURL    string
	httpClient *http.Client
	timeouts   GenerationTimeouts
}

func NewHTTPGenerationClient(baseURL string, timeouts GenerationTimeouts) *HTTPGenerationClient {
	return &HTTPGenerationClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeouts:   timeouts,
	}
}

// upstream request/response shapes. The service historically answered with
// either "slides" or "items" depending on content type; both are accepted
// and normalized here.
type generateRequest struct {
	ContentType    string   `json:"content_type"`
	Subject        string   `json:"subject"`
	GradeLevel     string   `json:"grade_level"`
	Chapter        string   `json:"chapter,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	ChapterContent string   `json:"chapter_content,omitempty"`
}

type modifyRequest struct {
	ContentType string          `json:"content_type"`
	Title       string          `json:"title"`
	Items       []GeneratedItem `json:"items"`
	Feedback    string          `json:"feedback"`
}

type generateResponse struct {
	Title  string          `json:"title"`
	Items  []GeneratedItem `json:"items"`
	Slides []GeneratedItem `json:"slides"`
	Error  string          `json:"error"`
}

type doubtRequest struct {
	Question   string `json:"question"`
	Subject    string `json:"subject,omitempty"`
	GradeLevel string `json:"grade_level,omitempty"`
}

type doubtResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
}

func (c *HTTPGenerationClient) Generate(ctx context.Context, params GenerateParams) (*GeneratedContent, error) {
	body := generateRequest{
		ContentType:    string(params.ContentType),
		Subject:        params.Subject,
		GradeLevel:     params.GradeLevel,
		Chapter:        params.Chapter,
		Topics:         params.Topics,
		ChapterContent: params.ChapterContent,
	}
	var resp generateResponse
	if err := c.post(ctx, "/v1/generate", c.timeoutFor(params.ContentType), body, &resp); err != nil {
		return nil, err
	}
	return normalizeContent(&resp)
}

func (c *HTTPGenerationClient) Modify(ctx context.Context, contentType models.ContentType, current *GeneratedContent, feedback string) (*GeneratedContent, error) {
	body := modifyRequest{
		ContentType: string(contentType),
		Title:       current.Title,
		Items:       current.Items,
		Feedback:    feedback,
	}
	var resp generateResponse
	if err := c.post(ctx, "/v1/modify", c.timeoutFor(contentType), body, &resp); err != nil {
		return nil, err
	}
	return normalizeContent(&resp)
}

func (c *HTTPGenerationClient) SolveDoubt(ctx context.Context, question, subject, gradeLevel string) (string, error) {
	body := doubtRequest{Question: question, Subject: subject, GradeLevel: gradeLevel}
	var resp doubtResponse
	if err := c.post(ctx, "/v1/doubt", c.timeouts.Doubt, body, &resp); err != nil {
		return "", err
	}
	if resp.Answer == "" {
		return "", errors.NewServiceUnavailableError("generation service returned an empty answer", nil)
	}
	return resp.Answer, nil
}

func (c *HTTPGenerationClient) post(ctx context.Context, path string, timeout time.Duration, body, out interface{}) error {
	if c.baseURL == "" {
		return errors.NewNotConfiguredError("GENERATION_SERVICE_URL is not set")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("encoding generation request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewServiceUnavailableError("generation service unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewServiceUnavailableError("reading generation service response", err)
	}

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("generation service call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(raw)
		if msg == "" {
			msg = fmt.Sprintf("generation service returned status %d", resp.StatusCode)
		}
		return errors.NewServiceUnavailableError(msg, nil)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewServiceUnavailableError("generation service returned malformed JSON", err)
	}
	return nil
}

func (c *HTTPGenerationClient) timeoutFor(t models.ContentType) time.Duration {
	switch t {
	case models.ContentTypeDeck:
		return c.timeouts.Deck
	case models.ContentTypeLessonPlan:
		return c.timeouts.LessonPlan
	case models.ContentTypeActivity:
		return c.timeouts.Activity
	default:
		return c.timeouts.Topic
	}
}

// normalizeContent folds the slides/items split into one ordered item list.
func normalizeContent(resp *generateResponse) (*GeneratedContent, error) {
	items := resp.Items
	if len(items) == 0 {
		items = resp.Slides
	}
	if resp.Title == "" || len(items) == 0 {
		return nil, errors.NewServiceUnavailableError("generation service returned an incomplete result", nil)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return &GeneratedContent{Title: resp.Title, Items: items}, nil
}

// upstreamMessage pulls the error text out of a failed upstream body, if any.
func upstreamMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
