package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marigold-copilot/internal/models"
)

func validResponse() models.Response {
	return models.Response{
		Text:         "Revenue is up.",
		DirectAnswer: "Revenue is up.",
		Recommendations: []models.Recommendation{
			{Title: "Scale winners", Description: "Move budget.", Impact: models.ImpactHigh, EstimatedROI: "+18%"},
		},
		SuggestedQuestions: []string{"a", "b", "c", "d"},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.Response)
		valid  bool
		field  string
	}{
		{
			name:  "well formed",
			valid: true,
		},
		{
			name:   "no recommendations is allowed",
			mutate: func(r *models.Response) { r.Recommendations = []models.Recommendation{} },
			valid:  true,
		},
		{
			name:   "empty direct answer",
			mutate: func(r *models.Response) { r.DirectAnswer = "" },
			field:  "directAnswer",
		},
		{
			name:   "three suggested questions",
			mutate: func(r *models.Response) { r.SuggestedQuestions = r.SuggestedQuestions[:3] },
			field:  "suggestedQuestions",
		},
		{
			name:   "unknown impact",
			mutate: func(r *models.Response) { r.Recommendations[0].Impact = "huge" },
			field:  "recommendations.0.impact",
		},
		{
			name:   "roi without sign",
			mutate: func(r *models.Response) { r.Recommendations[0].EstimatedROI = "18%" },
			field:  "recommendations.0.estimatedROI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResponse()
			if tt.mutate != nil {
				tt.mutate(&r)
			}

			result, err := ValidateResponse(r)

			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.field, result.Errors[0].Field)
				assert.Contains(t, result.Summary(), tt.field)
			}
		})
	}
}

func TestQuestionSchema(t *testing.T) {
	v := MustValidator(QuestionSchema)

	result, err := v.Validate(map[string]interface{}{"question": "What's my ROI?"})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = v.Validate(map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = v.Validate(map[string]interface{}{"question": 42})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestNewValidator_BadSchema(t *testing.T) {
	_, err := NewValidator(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustValidator(`{`) })
}
