package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-ocr/pkg/logger"
	"invoice-ocr/pkg/schemas"
	"invoice-ocr/pkg/services/ocr"
)

const uploadField = "files"

// Upload handles POST /upload: files are checked, summarized and relayed to
// the OCR webhook, whose JSON answer is returned unchanged.
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File[uploadField]) == 0 {
		validationError(c, []schemas.FieldError{{Field: uploadField, Message: "field required"}})
		return
	}
	headers := form.File[uploadField]

	// reject the batch before buffering anything
	for _, fh := range headers {
		if err := ocr.ValidateContentType(fh.Filename, fh.Header.Get("Content-Type")); err != nil {
			abortWithError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
			return
		}
	}

	files := make([]ocr.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			internalError(c, err)
			return
		}
		files = append(files, f)
	}

	body, err := h.relay.Relay(c.Request.Context(), files)
	if err != nil {
		h.relayError(c, err)
		return
	}

	logger.FromGin(c).Info("upload relayed", zap.Int("files", len(files)))
	c.Data(http.StatusOK, "application/json", body)
}

func (h *Handler) relayError(c *gin.Context, err error) {
	var typeErr *ocr.UnsupportedTypeError
	var upErr *ocr.UpstreamError

	switch {
	case errors.As(err, &typeErr):
		abortWithError(c, http.StatusBadRequest, CodeBadRequest, typeErr.Error())
	case errors.As(err, &upErr):
		_ = c.Error(err)
		abortWithError(c, upErr.StatusCode, CodeUpstream, upErr.Error())
	case errors.Is(err, ocr.ErrNotConfigured):
		abortWithError(c, http.StatusServiceUnavailable, CodeUnavailable, "upload relay is not configured")
	default:
		internalError(c, err)
	}
}

func readUpload(fh *multipart.FileHeader) (ocr.File, error) {
	f, err := fh.Open()
	if err != nil {
		return ocr.File{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ocr.File{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return ocr.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
