// Package schema validates loosely typed JSON payloads against a
// declarative field allowlist.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	tagString = "kind_string"
	tagInt    = "kind_int"
	tagNumber = "kind_number"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, tagString, typeIs(reflect.TypeOf("")))
	mustRegister(v, tagInt, typeIs(reflect.TypeOf(int64(0))))
	mustRegister(v, tagNumber, typeIs(reflect.TypeOf(float64(0))))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// typeIs matches the exact type, so a json.Number does not pass as a
// string.
func typeIs(t reflect.Type) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Type() == t
	}
}

type Type int

const (
	String Type = iota
	Int
	Number
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "integer"
	case Number:
		return "number"
	default:
		return "unknown"
	}
}

// Range bounds an Int or Number field, inclusive.
type Range struct {
	Min, Max float64
}

type Field struct {
	Name     string
	Type     Type
	Required bool
	Range    *Range
}

// Schema is an ordered field allowlist. Payload keys not listed are dropped.
type Schema struct {
	Fields []Field
}

// Violation describes one problem with a payload.
type Violation struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// ValidationError lists every violation found. It matches
// common.ErrValidation with errors.Is.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field == "" {
			parts = append(parts, v.Reason)
			continue
		}
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// Values holds validated, normalized fields: strings as string, Int as
// int64, Number as float64.
type Values map[string]any

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// StringPtr is nil when the field is absent.
func (v Values) StringPtr(name string) *string {
	s, ok := v[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Validate checks payload against s. It fails when a required field is
// missing, a field has the wrong type or is out of range, or none of the
// payload's keys are known to s. Violations are reported in field order.
func (s Schema) Validate(payload map[string]any) (Values, error) {
	data := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if raw, ok := payload[f.Name]; ok && raw != nil {
			data[f.Name] = f.normalize(raw)
		}
	}

	errs := validate.ValidateMap(data, s.rules(data))

	var violations []Violation
	for _, f := range s.Fields {
		if err, ok := errs[f.Name]; ok {
			violations = append(violations, Violation{Field: f.Name, Reason: f.reason(err)})
		}
	}
	if !s.recognizes(payload) {
		violations = append(violations, Violation{Reason: "payload has no recognizable fields"})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return Values(data), nil
}

// recognizes reports whether payload carries a non-null value for at least
// one field of s.
func (s Schema) recognizes(payload map[string]any) bool {
	for _, f := range s.Fields {
		if v, ok := payload[f.Name]; ok && v != nil {
			return true
		}
	}
	return false
}

// rules builds the validator tag for every field, e.g.
// "kind_int,gte=1,lte=5". An absent required field only gets "required";
// an absent optional field gets no rule.
func (s Schema) rules(data map[string]any) map[string]any {
	rules := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if _, ok := data[f.Name]; !ok {
			if f.Required {
				rules[f.Name] = "required"
			}
			continue
		}

		var tags []string
		switch f.Type {
		case String:
			tags = append(tags, tagString)
			if f.Required {
				tags = append(tags, "notblank")
			}
		case Int:
			tags = append(tags, tagInt)
		case Number:
			tags = append(tags, tagNumber)
		}

		if f.Range != nil {
			tags = append(tags, "gte="+f.bound(f.Range.Min), "lte="+f.bound(f.Range.Max))
		}
		rules[f.Name] = strings.Join(tags, ",")
	}
	return rules
}

func (f Field) bound(x float64) string {
	if f.Type == Int {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// reason turns the first failed tag into a client-facing message.
func (f Field) reason(err any) string {
	var fe validator.FieldError
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		fe = ve[0]
	}
	if fe == nil {
		return "is invalid"
	}

	switch fe.Tag() {
	case "required":
		return "required field is missing"
	case "notblank":
		return "must not be empty"
	case tagString, tagNumber:
		return "must be a " + f.Type.String()
	case tagInt:
		return "must be an " + f.Type.String()
	case "gte", "lte":
		return fmt.Sprintf("must be between %g and %g", f.Range.Min, f.Range.Max)
	}
	return "failed on " + fe.Tag()
}

// normalize converts decoded JSON numbers to the Go type of the field.
// Values that do not convert are returned unchanged so the kind check
// rejects them.
func (f Field) normalize(raw any) any {
	switch f.Type {
	case Int:
		if n, ok := toInt(raw); ok {
			return n
		}
	case Number:
		if x, ok := toFloat(raw); ok {
			return x
		}
	}
	return raw
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		x, err := v.Float64()
		return x, err == nil
	}
	return 0, false
}
