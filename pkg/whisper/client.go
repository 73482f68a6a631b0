// Package whisper submits audio to OpenAI's speech-to-text API.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// MaxFileSize is the hard payload ceiling enforced by the API (25MB).
const MaxFileSize = 25 * 1024 * 1024

// Client transcribes audio payloads.
type Client interface {
	// Transcribe converts audio to text.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	// TranscribeFile is a convenience method that takes a file path.
	TranscribeFile(ctx context.Context, audioPath string) (*TranscriptionResponse, error)
}

// TranscriptionRequest contains the audio data and options for transcription.
type TranscriptionRequest struct {
	AudioData io.Reader
	Filename  string
	Language  string // ISO-639-1 code; defaults to the client's configured language
}

// TranscriptionResponse contains the transcription result.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// Config for creating a new Whisper client.
type Config struct {
	APIKey   string
	BaseURL  string        // Optional, defaults to OpenAI API
	Model    string        // Optional, defaults to "whisper-1"
	Language string        // Optional fixed spoken language
	Timeout  time.Duration // Optional, defaults to 5 minutes
}

// HTTPClient implements Client against the OpenAI API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

// NewClient creates a new Whisper client.
func NewClient(cfg Config) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}

	return &HTTPClient{
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		model:    cfg.Model,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Transcribe sends audio to the API and returns the transcription verbatim.
func (c *HTTPClient) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	language := req.Language
	if language == "" {
		language = c.language
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, req.AudioData); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	if err := writer.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result TranscriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &result, nil
}

// TranscribeFile transcribes an audio file from disk.
func (c *HTTPClient) TranscribeFile(ctx context.Context, audioPath string) (*TranscriptionResponse, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	return c.Transcribe(ctx, TranscriptionRequest{
		AudioData: file,
		Filename:  filepath.Base(audioPath),
	})
}
