// Package validation checks uploaded files and request payloads before
// they reach the services layer.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"surveyclean/internal/config"
	apierrors "surveyclean/internal/errors"
)

// UploadValidator bounds what the upload endpoint accepts
type UploadValidator struct {
	maxBytes   int64
	extensions map[string]bool
	logger     *slog.Logger
}

// NewUploadValidator creates an upload validator from configuration
func NewUploadValidator(cfg config.UploadConfig, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}

	extensions := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		extensions[strings.ToLower(strings.TrimSpace(ext))] = true
	}

	return &UploadValidator{
		maxBytes:   cfg.MaxBytes,
		extensions: extensions,
		logger:     logger.With(slog.String("component", "upload_validator")),
	}
}

// ValidateUpload rejects files with a disallowed extension or a size
// over the configured limit. The returned error renders as an API error.
func (v *UploadValidator) ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !v.extensions[ext] {
		v.logger.Warn("Rejected upload with unsupported extension",
			slog.String("filename", filename),
			slog.String("extension", ext))
		return apierrors.NewWithDetails(
			apierrors.ErrUnsupportedFileType.StatusCode,
			apierrors.ErrUnsupportedFileType.ErrorCode,
			apierrors.ErrUnsupportedFileType.Message,
			map[string]interface{}{
				"filename":  filename,
				"extension": ext,
			})
	}

	if size > v.maxBytes {
		v.logger.Warn("Rejected oversized upload",
			slog.String("filename", filename),
			slog.Int64("size", size),
			slog.Int64("max_bytes", v.maxBytes))
		return apierrors.NewWithDetails(
			apierrors.ErrPayloadTooLarge.StatusCode,
			apierrors.ErrPayloadTooLarge.ErrorCode,
			apierrors.ErrPayloadTooLarge.Message,
			map[string]interface{}{
				"size":      size,
				"max_bytes": v.maxBytes,
			})
	}

	return nil
}

// MaxBytes reports the configured size limit
func (v *UploadValidator) MaxBytes() int64 {
	return v.maxBytes
}

// RequestValidator validates request payloads against struct tags
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a request validator that reports field
// names from json tags
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{validate: v}
}

// Struct validates a payload and converts the first violation into an
// API validation error
func (r *RequestValidator) Struct(v interface{}) error {
	err := r.validate.Struct(v)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return apierrors.InvalidRequestWithError(err)
	}

	first := violations[0]
	return apierrors.ErrValidation(first.Field(), violationMessage(first))
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
