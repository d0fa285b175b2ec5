package collector

import (
	"fmt"

	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/domain"
)

// NewCollector selects the correct implementation based on the MODE
func NewCollector(cfg config.Config) (domain.Source, error) {
	switch cfg.Mode {
	case "api", "":
		return NewAPIClient(cfg.Credentials)
	case "public":
		if cfg.Credentials.UserAgent == "" {
			return nil, fmt.Errorf("%w: REDDIT_USER_AGENT is required for public mode", config.ErrMissingCredentials)
		}
		return NewPublicClient(cfg.Credentials.UserAgent)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}
