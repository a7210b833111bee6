package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	"github.com/uber/jaeger-client-go/config"
)

// LogrusAdapter bridges jaeger's logger interface onto logrus
type LogrusAdapter struct {
	logger logrus.FieldLogger
}

func (a LogrusAdapter) Error(msg string) {
	a.logger.Error(msg)
}

func (a LogrusAdapter) Infof(msg string, args ...interface{}) {
	a.logger.Infof(msg, args...)
}

// InitTracer initializes the global tracer for the service and returns a
// closer to flush it at shutdown.
func InitTracer(l logrus.FieldLogger) func(serviceName string) (io.Closer, error) {
	return func(serviceName string) (io.Closer, error) {
		cfg, err := config.FromEnv()
		if err != nil {
			return nil, err
		}
		cfg.ServiceName = serviceName
		cfg.Sampler = &config.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		}

		tracer, closer, err := cfg.NewTracer(config.Logger(LogrusAdapter{logger: l}))
		if err != nil {
			return nil, err
		}

		opentracing.SetGlobalTracer(tracer)
		return closer, nil
	}
}

// Teardown flushes and closes the tracer
func Teardown(l logrus.FieldLogger) func(closer io.Closer) func() {
	return func(closer io.Closer) func() {
		return func() {
			if err := closer.Close(); err != nil {
				l.WithError(err).Error("Unable to close tracer.")
			}
		}
	}
}

// StartSpan starts a named span and returns a logger annotated with it
func StartSpan(l logrus.FieldLogger, name string, opts ...opentracing.StartSpanOption) (logrus.FieldLogger, opentracing.Span) {
	span := opentracing.StartSpan(name, opts...)
	return l.WithField("span", name), span
}
