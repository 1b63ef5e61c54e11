package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValidator_NotBlank(t *testing.T) {
	v := newValidator()
	require.NotPanics(t, func() { newValidator() })
	require.Error(t, v.Var("   ", "notblank"))
	require.NoError(t, v.Var("Asha", "notblank"))

	type input struct {
		Name string `json:"studentName" validate:"notblank"`
	}
	requireValidation(t, validateStruct(input{Name: "\t"}), "studentName")
}
