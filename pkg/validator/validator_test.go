package validator

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	ProjectID string `mapstructure:"project_id" validate:"required"`
	URL       string `mapstructure:"database_url" validate:"omitempty,url"`
	Port      int    `json:"port" validate:"min=1,max=65535"`
}

type testConfig struct {
	Firebase testSettings `mapstructure:"firebase"`
}

func TestValidateStructSuccess(t *testing.T) {
	cfg := testConfig{Firebase: testSettings{
		ProjectID: "paint-store",
		URL:       "https://paint-store-default-rtdb.firebaseio.com",
		Port:      8080,
	}}

	require.NoError(t, ValidateStruct(cfg))
}

func TestValidateStructFailures(t *testing.T) {
	cfg := testConfig{Firebase: testSettings{URL: "not a url", Port: 0}}

	err := ValidateStruct(cfg)
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)

	fields := make([]string, 0, len(vErrs))
	for _, v := range vErrs {
		fields = append(fields, v.Field)
	}
	require.ElementsMatch(t, []string{"firebase.project_id", "firebase.database_url", "firebase.port"}, fields)
	require.Contains(t, err.Error(), "firebase.port failed on min=1")
}

func TestRegisterValidation(t *testing.T) {
	type payload struct {
		Ref string `json:"ref" validate:"leadingslash"`
	}

	require.NoError(t, RegisterValidation("leadingslash", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), "/")
	}))

	require.NoError(t, ValidateStruct(payload{Ref: "/users"}))
	require.Error(t, ValidateStruct(payload{Ref: "users"}))
}

func TestEmptyValidationErrorsMessage(t *testing.T) {
	require.Equal(t, "validation failed", ValidationErrors{}.Error())
}
