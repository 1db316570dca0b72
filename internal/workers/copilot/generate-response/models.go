// internal/workers/copilot/generate-response/models.go
package generateresponse

import "marigold-copilot/internal/models"

type Input struct {
	Question string `json:"question"`
	Surface  string `json:"surface,omitempty"`
}

type Output struct {
	Intent   models.Intent   `json:"intent"`
	Topic    string          `json:"topic"`
	Response models.Response `json:"response"`
}
