package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config describes how to reach a Fluent Bit forward input.
type Config struct {
	Host      string
	Port      int
	TagPrefix string // prepended to every tag, usually the service name
	Timeout   time.Duration
	Async     bool
}

// NewClient creates a Fluent Bit client. fluent.New does not dial eagerly,
// so delivery problems only show up on the first Post.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	logger, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Timeout:      cfg.Timeout,
		Async:        cfg.Async,
		MaxRetryWait: 5000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return logger, nil
}
