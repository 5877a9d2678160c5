package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambiamarkets/price-tracker/internal/http/response"
)

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]any{"uid": "abc"})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("something broke")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email string  `validate:"required,email"`
		Price float64 `validate:"gte=0"`
		Unit  string  `validate:"required,oneof=kg piece"`
		Date  string  `validate:"omitempty,datetime=2006-01-02"`
	}

	v := validator.New()
	err := v.Struct(payload{Email: "not-an-email", Price: -1, Unit: "barrel", Date: "2026-13-40"})
	require.Error(t, err)

	resp := response.ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email address")
	assert.Contains(t, resp.Error, "field Price must not be negative")
	assert.Contains(t, resp.Error, "field Unit must be one of the allowed values")
	assert.Contains(t, resp.Error, "field Date can contain only date in format 2006-01-02")
}
