package event

import "go.uber.org/zap"

// BusOption configures a bus.
type BusOption func(*busConfig)

type busConfig struct {
	panicHandler PanicHandler
	logger       *zap.Logger
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger: zap.NewNop(),
	}
}

// WithPanicHandler sets the function called when a handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *zap.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
