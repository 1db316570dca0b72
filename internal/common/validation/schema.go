// Package validation checks copilot payloads against JSON schemas.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"marigold-copilot/internal/models"
)

// ResponseSchema describes a well-formed Response as rendered by the display surfaces.
const ResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["text", "directAnswer", "recommendations", "suggestedQuestions"],
  "properties": {
    "text": {"type": "string", "minLength": 1},
    "directAnswer": {"type": "string", "minLength": 1},
    "recommendations": {
      "type": "array",
      "maxItems": 2,
      "items": {
        "type": "object",
        "required": ["title", "description", "impact", "estimatedROI"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string", "minLength": 1},
          "impact": {"type": "string", "enum": ["high", "medium", "low"]},
          "estimatedROI": {"type": "string", "pattern": "^[+-][0-9]+%$"}
        }
      }
    },
    "suggestedQuestions": {
      "type": "array",
      "minItems": 4,
      "maxItems": 4,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

// QuestionSchema describes the body of a submitted question.
const QuestionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["question"],
  "properties": {
    "question": {"type": "string", "maxLength": 2000}
  }
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one line for logs and error details.
func (r *ValidationResult) Summary() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// Validator holds a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schema string) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// MustValidator panics if schema does not compile; for package-level schemas.
func MustValidator(schema string) *Validator {
	v, err := NewValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks any JSON-marshalable document.
func (v *Validator) Validate(document interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

var responseValidator = MustValidator(ResponseSchema)

// ValidateResponse checks r against ResponseSchema.
func ValidateResponse(r models.Response) (*ValidationResult, error) {
	return responseValidator.Validate(r)
}
