package core

import "go.uber.org/zap"

type options struct {
	logger *zap.SugaredLogger
}

type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop().Sugar(),
	}
}

// WithLogger sets the logger used by the store. The default is a no-op
// logger, keeping the store silent when embedded as a library.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
