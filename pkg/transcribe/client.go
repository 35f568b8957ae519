package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrInvalidAPIKey marks upstream auth rejections so callers can prompt
	// for a new key instead of retrying.
	ErrInvalidAPIKey = errors.New("invalid transcription api key")
)

// Client transcribes one audio file per call. Each call is billed and
// rate-limited independently by the upstream service, so no batching and no
// automatic retry happen here.
type Client interface {
	Transcribe(ctx context.Context, filePath, apiKey string) (Transcript, error)
}

// createFn performs the actual API request. Injectable for tests.
type createFn func(ctx context.Context, apiKey string, req openai.AudioRequest) (openai.AudioResponse, error)

func defaultCreate(ctx context.Context, apiKey string, req openai.AudioRequest) (openai.AudioResponse, error) {
	return openai.NewClient(apiKey).CreateTranscription(ctx, req)
}

// OpenAIClient calls the OpenAI transcription endpoint with the Whisper
// model, requesting verbose JSON so the response carries per-segment
// timestamps and the total duration.
type OpenAIClient struct {
	create createFn
}

type ClientOption func(*OpenAIClient)

// WithCreateFn sets a custom request function (for testing).
func WithCreateFn(fn createFn) ClientOption {
	return func(c *OpenAIClient) { c.create = fn }
}

func NewOpenAIClient(opts ...ClientOption) *OpenAIClient {
	c := &OpenAIClient{create: defaultCreate}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*OpenAIClient)(nil)

func (c *OpenAIClient) Transcribe(ctx context.Context, filePath, apiKey string) (Transcript, error) {
	resp, err := c.create(ctx, apiKey, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && (apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden) {
			return Transcript{}, fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
		}
		return Transcript{}, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	transcript := Transcript{
		Text:     resp.Text,
		Duration: resp.Duration,
		Segments: make([]Segment, 0, len(resp.Segments)),
	}
	for _, seg := range resp.Segments {
		transcript.Segments = append(transcript.Segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	return transcript, nil
}
