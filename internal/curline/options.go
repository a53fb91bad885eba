package curline

import (
	"go.uber.org/zap"

	"github.com/dshills/linelight/internal/event"
)

// DefaultCategory is the format map category the band is painted with.
const DefaultCategory = "CurrentLine"

type config struct {
	logger   *zap.Logger
	category string
	priority event.Priority
	disabled bool
}

func defaultConfig() config {
	return config{
		logger:   zap.NewNop(),
		category: DefaultCategory,
		priority: event.PriorityNormal,
	}
}

// Option configures a Controller.
type Option func(*config)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCategory sets the format map category of the band brush.
func WithCategory(name string) Option {
	return func(c *config) {
		if name != "" {
			c.category = name
		}
	}
}

// WithPriority sets the priority of the controller's subscriptions.
func WithPriority(p event.Priority) Option {
	return func(c *config) {
		c.priority = p
	}
}

// WithDisabled starts the controller with the highlight turned off.
func WithDisabled() Option {
	return func(c *config) {
		c.disabled = true
	}
}
