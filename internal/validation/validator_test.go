package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email,max=128"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sampleRequest{Email: "a@b.com"}))
}

func TestValidateReportsWireFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(sampleRequest{Email: "nope", Count: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", details["email"])
	assert.Equal(t, "must be greater than or equal to 0", details["count"])
}
