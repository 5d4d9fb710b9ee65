package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/clinicnexus/clinic-api/pkg/errors"
)

func TestAppErrorMessages(t *testing.T) {
	assert.Equal(t, "patient not found", apperrors.NotFound("patient not found").Error())
	assert.Equal(t, apperrors.ErrConflict, apperrors.Conflict("insufficient stock").Code)
}

func TestInternalWrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperrors.Internal(cause)

	assert.Contains(t, err.Error(), "internal server error")
	assert.True(t, stderrors.Is(err, cause))
}
