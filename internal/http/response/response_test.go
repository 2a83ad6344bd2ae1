package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": "SUB-aaaaaa"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		CustomerName string  `validate:"required"`
		Email        string  `validate:"required,email"`
		PlanType     string  `validate:"required,oneof=hourly weekly"`
		Amount       float64 `validate:"omitempty,gt=0"`
	}

	validate := validator.New()
	err := validate.Struct(request{Email: "not-an-email", PlanType: "yearly", Amount: -5})
	assert.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field CustomerName is a required field")
	assert.Contains(t, resp.Error, "field Email must be a valid email address")
	assert.Contains(t, resp.Error, "field PlanType must be one of: hourly weekly")
	assert.Contains(t, resp.Error, "field Amount must be greater than 0")
}
