package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"firstName" validate:"required"`
	Color string `json:"color,omitempty" validate:"omitempty,color"`
	Slots []slot `json:"slots" validate:"dive"`
}

type slot struct {
	Day string `json:"day" validate:"required,color"`
}

func TestValidate(t *testing.T) {
	v, err := New(OneOf("color", []string{"red", "blue"}))
	require.NoError(t, err)

	assert.NoError(t, v.Validate(&sample{Name: "a", Color: "red", Slots: []slot{{Day: "blue"}}}))
	assert.NoError(t, v.Validate(&sample{Name: "a"}))

	err = v.Validate(&sample{Color: "green", Slots: []slot{{Day: "pink"}}})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, e := range verrs {
		fields[e.Field()] = e.Tag()
	}
	assert.Equal(t, map[string]string{"firstName": "required", "color": "color", "day": "color"}, fields)
}

func TestNew_DuplicateTagOverrides(t *testing.T) {
	_, err := New(OneOf("color", []string{"red"}), OneOf("color", []string{"blue"}))
	assert.NoError(t, err)
}

func TestNew_EmptyTag(t *testing.T) {
	_, err := New(Rule{Tag: "", Fn: func(validator.FieldLevel) bool { return true }})
	assert.Error(t, err)
}

func TestRegisterGin(t *testing.T) {
	assert.NoError(t, RegisterGin(OneOf("color", []string{"red"})))
}
