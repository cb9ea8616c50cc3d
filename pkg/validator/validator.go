// Package validator wraps go-playground/validator with json field naming and
// support for enum-like custom tags shared by gin binding and services.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validator validates structs against their `validate` tags.
type Validator interface {
	Validate(interface{}) error
}

// Rule is a custom tag and the function that checks it.
type Rule struct {
	Tag string
	Fn  validator.Func
}

// OneOf builds a rule accepting only the listed string values. Empty strings
// pass so the rule composes with omitempty and required.
func OneOf(tag string, values []string) Rule {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return Rule{
		Tag: tag,
		Fn: func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			_, ok := allowed[s]
			return ok
		},
	}
}

type validate struct {
	v *validator.Validate
}

func New(rules ...Rule) (Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := Configure(v, rules...); err != nil {
		return nil, err
	}
	return &validate{v: v}, nil
}

func (v *validate) Validate(obj interface{}) error {
	return v.v.Struct(obj)
}

// Configure reports fields by their json name and registers rules on v.
func Configure(v *validator.Validate, rules ...Rule) error {
	v.RegisterTagNameFunc(jsonName)
	for _, r := range rules {
		if err := v.RegisterValidation(r.Tag, r.Fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", r.Tag, err)
		}
	}
	return nil
}

// RegisterGin applies Configure to gin's default binding validator.
func RegisterGin(rules ...Rule) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return Configure(v, rules...)
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
