package validation

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/internal/config"
	apierrors "surveyclean/internal/errors"
)

func testUploadValidator(t *testing.T) *UploadValidator {
	t.Helper()
	return NewUploadValidator(config.UploadConfig{
		MaxBytes:   1024,
		Extensions: []string{".csv", ".xlsx", ".xls"},
	}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestUploadValidator_ValidateUpload(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		size       int64
		wantStatus int
	}{
		{
			name:     "valid csv",
			filename: "survey_data.csv",
			size:     512,
		},
		{
			name:     "valid xlsx",
			filename: "responses.xlsx",
			size:     1024,
		},
		{
			name:     "extension case insensitive",
			filename: "DATA.CSV",
			size:     100,
		},
		{
			name:       "unsupported extension",
			filename:   "notes.txt",
			size:       100,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "no extension",
			filename:   "data",
			size:       100,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "oversized file",
			filename:   "big.csv",
			size:       2048,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	v := testUploadValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			apiErr, ok := err.(*apierrors.APIError)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
		})
	}
}

type runPayload struct {
	ImputationMethod string `json:"imputation_method" validate:"omitempty,oneof=Median Mean KNN"`
	WeightColumn     string `json:"weight_column" validate:"required"`
}

func TestRequestValidator_Struct(t *testing.T) {
	v := NewRequestValidator()

	t.Run("valid payload", func(t *testing.T) {
		err := v.Struct(runPayload{ImputationMethod: "KNN", WeightColumn: "Design_Weight"})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := v.Struct(runPayload{ImputationMethod: "Median"})
		require.Error(t, err)

		apiErr, ok := err.(*apierrors.APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

		details, ok := apiErr.Details.(apierrors.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "weight_column", details.Field)
	})

	t.Run("invalid oneof value", func(t *testing.T) {
		err := v.Struct(runPayload{ImputationMethod: "Mode", WeightColumn: "w"})
		require.Error(t, err)

		apiErr, ok := err.(*apierrors.APIError)
		require.True(t, ok)

		details, ok := apiErr.Details.(apierrors.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "imputation_method", details.Field)
		assert.Contains(t, details.Message, "Median Mean KNN")
	})
}
