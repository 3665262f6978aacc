package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) ObserveRelay(outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreview(t *testing.T) {
	t.Run("long input is truncated to 50 characters", func(t *testing.T) {
		data := bytes.Repeat([]byte("abc"), 100)
		encoded := base64.StdEncoding.EncodeToString(data)

		assert.Equal(t, encoded[:50]+"...(truncated)", Preview(data))
	})

	t.Run("short input is kept whole", func(t *testing.T) {
		assert.Equal(t, "aGk=...(truncated)", Preview([]byte("hi")))
	})
}

func TestValidateContentType(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"} {
		assert.NoError(t, ValidateContentType("f", ct), ct)
	}

	err := ValidateContentType("notes.txt", "text/plain")
	var typeErr *UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "notes.txt", typeErr.Filename)
	assert.Equal(t, "text/plain", typeErr.ContentType)
}

func TestService_Summarize(t *testing.T) {
	svc := NewService(Config{}, nil, zap.NewNop(), nil)
	img := pngBytes(t, 40, 20)

	summaries, err := svc.Summarize([]File{
		{Filename: "page.png", ContentType: "image/png", Data: img},
		{Filename: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		{Filename: "broken.jpg", ContentType: "image/jpeg", Data: []byte("not really a jpeg")},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, Preview(img), summaries[0].Base64Preview)
	assert.Equal(t, 40, summaries[0].Width)
	assert.Equal(t, 20, summaries[0].Height)
	assert.Empty(t, summaries[0].Message)

	assert.Equal(t, "PDF file uploaded successfully", summaries[1].Message)
	assert.Empty(t, summaries[1].Base64Preview)

	assert.NotEmpty(t, summaries[2].Base64Preview)
	assert.Zero(t, summaries[2].Width)
}

func TestService_Relay(t *testing.T) {
	ctx := context.Background()

	t.Run("posts summaries and returns upstream JSON verbatim", func(t *testing.T) {
		var received uploadPayload
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"invoice":{"total":265},"items":[1,2]}`))
		}))
		defer srv.Close()

		rec := &fakeRecorder{}
		svc := NewService(Config{URL: srv.URL, Token: "secret-token"}, srv.Client(), zap.NewNop(), rec)

		out, err := svc.Relay(ctx, []File{{Filename: "a.pdf", ContentType: "application/pdf"}})
		require.NoError(t, err)

		assert.JSONEq(t, `{"invoice":{"total":265},"items":[1,2]}`, string(out))
		assert.Equal(t, "secret-token", auth)
		require.Len(t, received.UploadedFiles, 1)
		assert.Equal(t, "a.pdf", received.UploadedFiles[0].Filename)
		assert.Equal(t, []string{OutcomeSuccess}, rec.outcomes)
	})

	t.Run("disallowed type aborts before any call", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer srv.Close()

		svc := NewService(Config{URL: srv.URL}, srv.Client(), zap.NewNop(), nil)
		_, err := svc.Relay(ctx, []File{
			{Filename: "a.png", ContentType: "image/png", Data: pngBytes(t, 2, 2)},
			{Filename: "b.txt", ContentType: "text/plain"},
		})

		var typeErr *UnsupportedTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, "b.txt", typeErr.Filename)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("non-2xx surfaces status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("workflow not active"))
		}))
		defer srv.Close()

		rec := &fakeRecorder{}
		svc := NewService(Config{URL: srv.URL}, srv.Client(), zap.NewNop(), rec)
		_, err := svc.Relay(ctx, []File{{Filename: "a.pdf", ContentType: "application/pdf"}})

		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
		assert.Equal(t, "API error: workflow not active", upErr.Error())
		assert.Equal(t, []string{OutcomeUpstreamError}, rec.outcomes)
	})

	t.Run("redirect is an upstream error and is not followed", func(t *testing.T) {
		var redirectHits int32
		mux := http.NewServeMux()
		mux.HandleFunc("/hook", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		})
		mux.HandleFunc("/elsewhere", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&redirectHits, 1)
			_, _ = w.Write([]byte(`{"method":"` + r.Method + `"}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		svc := NewService(Config{URL: srv.URL + "/hook"}, srv.Client(), zap.NewNop(), nil)
		out, err := svc.Relay(ctx, []File{{Filename: "a.pdf", ContentType: "application/pdf"}})

		assert.Nil(t, out)
		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusFound, upErr.StatusCode)
		assert.Zero(t, atomic.LoadInt32(&redirectHits))
	})

	t.Run("malformed upstream JSON is a generic failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer srv.Close()

		rec := &fakeRecorder{}
		svc := NewService(Config{URL: srv.URL}, srv.Client(), zap.NewNop(), rec)
		_, err := svc.Relay(ctx, []File{{Filename: "a.pdf", ContentType: "application/pdf"}})

		require.Error(t, err)
		var upErr *UpstreamError
		assert.False(t, errors.As(err, &upErr))
		assert.Equal(t, []string{OutcomeFailed}, rec.outcomes)
	})

	t.Run("unreachable webhook is a generic failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		svc := NewService(Config{URL: url}, nil, zap.NewNop(), nil)
		_, err := svc.Relay(ctx, []File{{Filename: "a.pdf", ContentType: "application/pdf"}})
		assert.Error(t, err)
	})

	t.Run("missing url", func(t *testing.T) {
		svc := NewService(Config{}, nil, zap.NewNop(), nil)
		assert.False(t, svc.Configured())

		_, err := svc.Relay(ctx, []File{{Filename: "a.pdf", ContentType: "application/pdf"}})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
