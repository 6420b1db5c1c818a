package store

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
)

// Option customises a file store.
type Option func(*fileOptions)

type fileOptions struct {
	log logrus.FieldLogger
}

// WithLogger routes load and save diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *fileOptions) {
		if log != nil {
			o.log = log
		}
	}
}

func newFileOptions(opts []Option) fileOptions {
	o := fileOptions{log: logger.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
