package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
	"github.com/babybuddywidgets/bbclient/internal/validation"
)

type testPage struct {
	Kind   string `json:"kind" validate:"required,color"`
	Offset int    `json:"offset" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gt=0,lte=1000"`
}

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v := validation.New()
	err := v.RegisterStringCheck("color", "must be a known color", func(s string) bool {
		return s == "red" || s == "blue"
	})
	require.NoError(t, err)
	return v
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(testPage{Kind: "red", Offset: 0, Limit: 20})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name      string
		req       testPage
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing kind",
			req:       testPage{Limit: 10},
			wantField: "kind",
			wantMsg:   "is required",
		},
		{
			name:      "custom check",
			req:       testPage{Kind: "green", Limit: 10},
			wantField: "kind",
			wantMsg:   "must be a known color",
		},
		{
			name:      "negative offset",
			req:       testPage{Kind: "red", Offset: -1, Limit: 10},
			wantField: "offset",
			wantMsg:   "must be greater than or equal to 0",
		},
		{
			name:      "zero limit",
			req:       testPage{Kind: "red"},
			wantField: "limit",
			wantMsg:   "must be greater than 0",
		},
		{
			name:      "limit above max",
			req:       testPage{Kind: "red", Limit: 5000},
			wantField: "limit",
			wantMsg:   "must be less than or equal to 1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var failure *domainerrors.Error
			require.ErrorAs(t, err, &failure)
			details, ok := failure.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
			assert.Contains(t, failure.Message, tt.wantField)
		})
	}
}
