package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	previewLength    = 50
	truncationMarker = "...(truncated)"
	pdfMessage       = "PDF file uploaded successfully"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Relay outcomes reported to the Recorder
const (
	OutcomeSuccess       = "success"
	OutcomeUpstreamError = "upstream_error"
	OutcomeFailed        = "failed"
)

// ErrNotConfigured is returned by Relay when no webhook URL is set
var ErrNotConfigured = errors.New("ocr webhook url is not configured")

// UnsupportedTypeError rejects a file whose declared content type is not accepted
type UnsupportedTypeError struct {
	Filename    string
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("File %s has content type %s which is not allowed", e.Filename, e.ContentType)
}

// UpstreamError is a non-2xx answer from the OCR webhook
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return "API error: " + e.Body
}

// File is one uploaded file, fully buffered
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FileSummary is what the webhook receives for each file
type FileSummary struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	Base64Preview string `json:"base64_preview,omitempty"`
	Message       string `json:"message,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
}

type uploadPayload struct {
	UploadedFiles []FileSummary `json:"uploaded_files"`
}

// Recorder observes relay calls
type Recorder interface {
	ObserveRelay(outcome string, elapsed time.Duration)
}

// Config holds the webhook location and credentials
type Config struct {
	URL   string
	Token string
}

// Service forwards summaries of uploaded files to the external OCR webhook
type Service struct {
	client *http.Client
	url    string
	token  string
	log    *zap.Logger
	rec    Recorder
}

// NewService creates a new relay service. rec may be nil.
// Redirects from the webhook are never followed; a 3xx is an upstream error.
func NewService(cfg Config, client *http.Client, log *zap.Logger, rec Recorder) *Service {
	c := &http.Client{}
	if client != nil {
		*c = *client
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Service{
		client: c,
		url:    cfg.URL,
		token:  cfg.Token,
		log:    log.Named("ocr"),
		rec:    rec,
	}
}

// Configured reports whether a webhook URL is set
func (s *Service) Configured() bool {
	return s.url != ""
}

// ValidateContentType checks a declared content type against the accepted set
func ValidateContentType(filename, contentType string) error {
	if imageTypes[contentType] || contentType == "application/pdf" {
		return nil
	}
	return &UnsupportedTypeError{Filename: filename, ContentType: contentType}
}

// Preview returns the first characters of the base64 encoding of data
// followed by a truncation marker.
func Preview(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) > previewLength {
		encoded = encoded[:previewLength]
	}
	return encoded + truncationMarker
}

// Summarize validates every file and builds the webhook payload entries.
// A single unsupported file rejects the whole batch.
func (s *Service) Summarize(files []File) ([]FileSummary, error) {
	for _, f := range files {
		if err := ValidateContentType(f.Filename, f.ContentType); err != nil {
			return nil, err
		}
	}

	out := make([]FileSummary, 0, len(files))
	for _, f := range files {
		sum := FileSummary{Filename: f.Filename, ContentType: f.ContentType}
		if imageTypes[f.ContentType] {
			sum.Base64Preview = Preview(f.Data)
			sum.Width, sum.Height = s.dimensions(f)
		} else {
			sum.Message = pdfMessage
		}
		out = append(out, sum)
	}
	return out, nil
}

// dimensions decodes the image honouring EXIF orientation; undecodable data yields zeros
func (s *Service) dimensions(f File) (int, int) {
	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		s.log.Debug("could not decode image", zap.String("filename", f.Filename), zap.Error(err))
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Relay summarizes files, posts them to the webhook and returns its JSON answer unchanged
func (s *Service) Relay(ctx context.Context, files []File) (json.RawMessage, error) {
	summaries, err := s.Summarize(files)
	if err != nil {
		return nil, err
	}
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	body, err := s.post(ctx, summaries)
	s.observe(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Service) post(ctx context.Context, summaries []FileSummary) (json.RawMessage, error) {
	payload, err := json.Marshal(uploadPayload{UploadedFiles: summaries})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("webhook returned an error",
			zap.Int("status", resp.StatusCode),
			zap.Int("files", len(summaries)),
		)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, errors.New("webhook response is not valid JSON")
	}

	s.log.Info("files relayed", zap.Int("files", len(summaries)), zap.Int("status", resp.StatusCode))
	return json.RawMessage(body), nil
}

func (s *Service) observe(err error, elapsed time.Duration) {
	if s.rec == nil {
		return
	}
	var upErr *UpstreamError
	switch {
	case err == nil:
		s.rec.ObserveRelay(OutcomeSuccess, elapsed)
	case errors.As(err, &upErr):
		s.rec.ObserveRelay(OutcomeUpstreamError, elapsed)
	default:
		s.rec.ObserveRelay(OutcomeFailed, elapsed)
	}
}
