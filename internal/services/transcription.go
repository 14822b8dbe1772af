package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/config"
)

// TranscriptStatus is a single snapshot of a transcription job.
type TranscriptStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"` // queued | processing | completed | error
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ProgressFunc receives human-readable phase notifications while a
// transcription is in flight.
type ProgressFunc func(message string)

type TranscriptionService interface {
	Upload(ctx context.Context, filePath string) (string, error)
	StartJob(ctx context.Context, audioURL string) (string, error)
	PollStatus(ctx context.Context, transcriptID string) (*TranscriptStatus, error)
	Transcribe(ctx context.Context, filePath string, onProgress ProgressFunc) (string, error)
}

// transcriptionService talks to the AssemblyAI v2 HTTP API.
type transcriptionService struct {
	apiKey       string
	baseURL      string
	uploadClient *http.Client
	client       *http.Client
	pollInterval time.Duration
	pollCeiling  time.Duration
	logger       *zap.Logger
}

func NewTranscriptionService(cfg config.TranscriptionConfig, logger *zap.Logger) TranscriptionService {
	return &transcriptionService{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout},
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: cfg.PollInterval,
		pollCeiling:  cfg.PollCeiling,
		logger:       logger,
	}
}

// Upload streams the media file to the provider and returns the upload URL.
func (t *transcriptionService) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open media file: %v", ErrUpload, err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/upload", file)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrUpload, err)
	}
	req.Header.Set("authorization", t.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	resp, err := t.uploadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}

	var uploadResp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpload, err)
	}
	if uploadResp.UploadURL == "" {
		return "", fmt.Errorf("%w: provider returned no upload url", ErrUpload)
	}

	return uploadResp.UploadURL, nil
}

// StartJob requests transcription of the uploaded media with language
// auto-detection and punctuation enabled, returning the transcript id.
func (t *transcriptionService) StartJob(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"audio_url":          audioURL,
		"language_detection": true,
		"punctuate":          true,
		"format_text":        true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrJobStart, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrJobStart, err)
	}
	req.Header.Set("authorization", t.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJobStart, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrJobStart, resp.StatusCode)
	}

	var jobResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jobResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrJobStart, err)
	}
	if jobResp.ID == "" {
		return "", fmt.Errorf("%w: provider returned no transcript id", ErrJobStart)
	}

	return jobResp.ID, nil
}

// PollStatus fetches the current job status once. It does not retry.
func (t *transcriptionService) PollStatus(ctx context.Context, transcriptID string) (*TranscriptStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/transcript/"+transcriptID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrPoll, err)
	}
	req.Header.Set("authorization", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPoll, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrPoll, resp.StatusCode)
	}

	var status TranscriptStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrPoll, err)
	}

	return &status, nil
}

// Transcribe runs the complete workflow: upload, start, then poll until the
// job completes, errors out, or the wall-clock ceiling elapses.
func (t *transcriptionService) Transcribe(ctx context.Context, filePath string, onProgress ProgressFunc) (string, error) {
	notify := func(message string) {
		if onProgress != nil {
			onProgress(message)
		}
	}

	notify("Uploading file...")
	t.logger.Info("uploading media for transcription", zap.String("file", filePath))
	audioURL, err := t.Upload(ctx, filePath)
	if err != nil {
		return "", err
	}

	notify("Starting transcription...")
	transcriptID, err := t.StartJob(ctx, audioURL)
	if err != nil {
		return "", err
	}
	t.logger.Info("transcription job started", zap.String("transcript_id", transcriptID))

	deadline := time.Now().Add(t.pollCeiling)
	for time.Now().Before(deadline) {
		notify("Processing audio...")

		status, err := t.PollStatus(ctx, transcriptID)
		if err != nil {
			return "", err
		}

		switch status.Status {
		case "completed":
			t.logger.Info("transcription completed",
				zap.String("transcript_id", transcriptID),
				zap.Int("text_length", len(status.Text)))
			return status.Text, nil
		case "error":
			errMsg := status.Error
			if errMsg == "" {
				errMsg = "unknown transcription error"
			}
			return "", fmt.Errorf("%w: %s", ErrTranscriptionFailed, errMsg)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, ctx.Err())
		case <-time.After(t.pollInterval):
		}
	}

	return "", fmt.Errorf("%w after %s", ErrTranscriptionTimeout, t.pollCeiling)
}
