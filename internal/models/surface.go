// internal/models/surface.go
package models

// Surface is a dashboard view hosting its own copilot prompt bar.
type Surface struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"displayName"`
	Placeholder      string   `json:"placeholder"`
	SuggestedPrompts []string `json:"suggestedPrompts"`
}
