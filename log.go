package nvcodec

import (
	"github.com/sirupsen/logrus"
)

// Option configures a library loader.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
	cfg Config
}

// WithLogger sets the logger that receives diagnostics, including the
// failures of native destroy calls that Close cannot return.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithConfig layers cfg over the environment-derived configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = o.cfg.Merge(cfg)
	}
}

func newOptions(opts []Option) options {
	o := options{
		log: logrus.StandardLogger(),
		cfg: ConfigFromEnv(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// logReleaseFailure records a destroy call that failed. Close methods
// cannot report errors, so the logger is the only place these surface.
func logReleaseFailure(log logrus.FieldLogger, resource string, err error) {
	log.WithError(err).WithField("resource", resource).Errorf("failed to destroy %s", resource)
}
