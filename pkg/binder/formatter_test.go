package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type mockFieldError struct {
	validator.FieldError
	tag   string
	field string
	param string
	kind  reflect.Kind
}

func (e *mockFieldError) Error() string           { return "Mock Field Error" }
func (e *mockFieldError) Tag() string             { return e.tag }
func (e *mockFieldError) ActualTag() string       { return e.tag }
func (e *mockFieldError) Namespace() string       { return "" }
func (e *mockFieldError) StructNamespace() string { return "" }
func (e *mockFieldError) Field() string           { return e.field }
func (e *mockFieldError) StructField() string     { return "" }
func (e *mockFieldError) Value() interface{}      { return "" }
func (e *mockFieldError) Param() string           { return e.param }
func (e *mockFieldError) Kind() reflect.Kind {
	if e.kind == reflect.Invalid {
		return reflect.String
	}
	return e.kind
}
func (e *mockFieldError) Type() reflect.Type               { return reflect.TypeOf("") }
func (e *mockFieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *mockFieldError
		expected string
	}{
		{"required", &mockFieldError{tag: "required", field: "title"}, `"title" is required`},
		{"max string", &mockFieldError{tag: "max", field: "title", param: "300"}, `"title" length must be less than or equal to 300 characters`},
		{"max slice", &mockFieldError{tag: "max", field: "co_authors", param: "10", kind: reflect.Slice}, `"co_authors" length must be less than or equal to 10 elements`},
		{"min number", &mockFieldError{tag: "min", field: "page", param: "1", kind: reflect.Int}, `"page" must be greater than or equal to 1`},
		{"oneof", &mockFieldError{tag: "oneof", field: "order", param: "asc desc"}, `"order" must be one of the following: "asc", "desc"`},
		{"date", &mockFieldError{tag: "date", field: "dob"}, `"dob" should be in the format of YYYY-MM-DD`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValidationError(tt.err))
		})
	}
}

func TestDateValidatorPattern(t *testing.T) {
	assert.True(t, dateRE.MatchString("1990-04-21"))
	assert.False(t, dateRE.MatchString("21-04-1990"))
	assert.False(t, dateRE.MatchString("1990/04/21"))
}
