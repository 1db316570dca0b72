// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marigold-copilot/internal/models"
)

var ErrSurfaceNotFound = errors.New("SURFACE_NOT_FOUND")

func LoadRegistry(path string) (*SurfaceRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg SurfaceRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating parent directories.
func (r *SurfaceRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *SurfaceRegistry) Lookup(id string) (models.Surface, error) {
	for _, s := range r.Surfaces {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Surface{}, fmt.Errorf("%w: %s", ErrSurfaceNotFound, id)
}

// Validate checks ids are present and unique and every surface has a display name.
func (r *SurfaceRegistry) Validate() error {
	if len(r.Surfaces) == 0 {
		return fmt.Errorf("registry contains no surfaces")
	}
	ids := make(map[string]bool)
	for _, s := range r.Surfaces {
		if s.ID == "" {
			return fmt.Errorf("surface missing required field: ID")
		}
		if ids[s.ID] {
			return fmt.Errorf("duplicate surface ID: %s", s.ID)
		}
		ids[s.ID] = true
		if s.DisplayName == "" {
			return fmt.Errorf("surface %s missing required field: DisplayName", s.ID)
		}
	}
	return nil
}

// Default returns the built-in dashboard surfaces.
func Default() *SurfaceRegistry {
	return &SurfaceRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Surfaces: []models.Surface{
			{
				ID:          "overview",
				DisplayName: "Overview Dashboard",
				Placeholder: "Ask about revenue, customers or program performance...",
				SuggestedPrompts: []string{
					"What's my revenue this month?",
					"Why are customers churning?",
					"Which campaign should I optimize first?",
					"How is the loyalty program performing?",
				},
			},
			{
				ID:          "campaigns",
				DisplayName: "Campaign Performance",
				Placeholder: "Ask about a campaign, open rates or budget...",
				SuggestedPrompts: []string{
					"How do I fix my spring newsletter open rate?",
					"Should I pause the Winter Gear Sale?",
					"Where should I reallocate budget?",
					"What's the ROI of my active campaigns?",
				},
			},
			{
				ID:          "loyalty",
				DisplayName: "Loyalty Program",
				Placeholder: "Ask about tiers, rewards or redemptions...",
				SuggestedPrompts: []string{
					"Why is the Trail Essentials punch card failing?",
					"How is the Summit tier welcome performing?",
					"How can I increase reward redemption?",
					"Which members are at risk of lapsing?",
				},
			},
			{
				ID:          "copilot",
				DisplayName: "Marigold AI Copilot",
				Placeholder: "Ask me anything about your marketing performance...",
				SuggestedPrompts: []string{
					"Give me a summary of this week",
					"What needs my attention urgently?",
					"Launch a campaign for lapsed customers",
					"Analyze my engagement trends this quarter",
				},
			},
		},
	}
}
