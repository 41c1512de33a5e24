package validator

import (
	"testing"

	domainerrors "quill/internal/domain/errors"
	"quill/internal/errors"
	"quill/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&usecase.RegisterInput{Email: "a@x.com", Name: "A", Password: "pw123456"}))

	err := v.Validate(&usecase.RegisterInput{Email: "not-an-email", Password: "pw123456"})
	require.Error(t, err)

	appErr, ok := errors.AsType[domainerrors.AppError](err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.KindValidation, appErr.Kind())
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.Contains(t, appErr.Details(), "email must be a valid email address")
	assert.Contains(t, appErr.Details(), "name is required")
}

func TestCustomValidator_PartialUpdate(t *testing.T) {
	v := New()
	empty := ""
	bad := "nope"

	assert.NoError(t, v.Validate(&usecase.UpdateUserInput{}))
	assert.Error(t, v.Validate(&usecase.UpdateUserInput{Name: &empty}))
	assert.Error(t, v.Validate(&usecase.UpdateUserInput{Email: &bad}))
}

func TestCustomValidator_NonStruct(t *testing.T) {
	err := New().Validate("plain string")

	assert.Equal(t, domainerrors.KindInternal, domainerrors.KindOf(err))
}
