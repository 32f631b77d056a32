package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]int{"total": 2})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]int{"total": 2}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("unauthorized")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "unauthorized", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Password string `validate:"required"`
		Amount   string `validate:"numeric"`
		Query    string `validate:"max=3"`
	}
	err := validator.New().Struct(form{Amount: "x", Query: "long"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "поле Password обязательно, поле Amount должно быть числом, поле Query слишком длинное", resp.Error)
}
