package request

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrorsUseJSONNames(t *testing.T) {
	UseJSONFieldNames()

	err := binding.Validator.ValidateStruct(&InvoiceRequest{LineItems: []LineItemRequest{{}}})
	require.Error(t, err)

	fields := FieldErrors(err)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	assert.ElementsMatch(t, []string{"client_id", "line_items[0].description"}, names)
	for _, f := range fields {
		assert.Equal(t, "is required", f.Message)
	}
}

func TestFieldErrorsPasswordConfirmation(t *testing.T) {
	UseJSONFieldNames()

	err := binding.Validator.ValidateStruct(&ResetPasswordRequest{
		Token:           "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Password:        "new-password",
		PasswordConfirm: "other-password",
	})
	fields := FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "password_confirm", fields[0].Field)
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("unexpected EOF")))
}
