// pkg/registry/schema.go
package registry

import "marigold-copilot/internal/models"

// SurfaceRegistry lists the dashboard surfaces that can host a copilot session.
type SurfaceRegistry struct {
	Version     string           `json:"version"`
	LastUpdated string           `json:"lastUpdated"`
	Surfaces    []models.Surface `json:"surfaces"`
}
