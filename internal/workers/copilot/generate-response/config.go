// internal/workers/copilot/generate-response/config.go
package generateresponse

import (
	"time"

	"marigold-copilot/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
	MaxRetries    int
}

func LoadConfig(cfg *config.Config) *Config {
	w := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:       config.GetDuration(w.Timeout),
		MaxJobsActive: w.MaxJobsActive,
		MaxRetries:    w.MaxRetries,
	}
}
