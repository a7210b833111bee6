package tracing

import (
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

func TestInitTracer(t *testing.T) {
	logger := logrus.New()

	tracerFunc := InitTracer(logger)
	if tracerFunc == nil {
		t.Fatal("InitTracer() returned nil")
	}

	closer, err := tracerFunc("atlas-cards")
	if err != nil {
		t.Errorf("InitTracer() returned error: %v", err)
	}
	if closer == nil {
		t.Error("InitTracer() returned nil closer")
	}
}

func TestTeardown(t *testing.T) {
	logger := logrus.New()

	closer := &recordingCloser{}
	teardown := Teardown(logger)(closer)
	if teardown == nil {
		t.Fatal("Teardown()(closer) returned nil")
	}

	teardown()

	if !closer.closed {
		t.Error("Teardown did not close the tracer")
	}
}

func TestTeardown_WithError(t *testing.T) {
	logger := logrus.New()

	teardown := Teardown(logger)(&failingCloser{})
	if teardown == nil {
		t.Fatal("Teardown()(closer) returned nil")
	}

	// A failing closer is logged, not propagated
	teardown()
}

func TestStartSpan(t *testing.T) {
	logger := logrus.New()

	spanLogger, span := StartSpan(logger, "card_mint")
	if spanLogger == nil {
		t.Error("StartSpan() returned nil logger")
	}
	if span == nil {
		t.Error("StartSpan() returned nil span")
	}
	if spanLogger == logger {
		t.Error("StartSpan() returned the same logger instance")
	}
}

func TestStartSpan_WithOptions(t *testing.T) {
	logger := logrus.New()

	spanLogger, span := StartSpan(logger, "card_use", opentracing.Tag{Key: "cardId", Value: uint32(7)})
	if spanLogger == nil {
		t.Error("StartSpan() with options returned nil logger")
	}
	if span == nil {
		t.Error("StartSpan() with options returned nil span")
	}
}

func TestLogrusAdapter(t *testing.T) {
	logger := logrus.New()
	adapter := LogrusAdapter{logger: logger}

	if adapter.logger != logger {
		t.Error("LogrusAdapter did not store the logger correctly")
	}

	adapter.Error("jaeger reported an error")
	adapter.Infof("jaeger reported: %s", "sampler initialized")
}

type recordingCloser struct {
	closed bool
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return nil
}

type failingCloser struct{}

func (c *failingCloser) Close() error {
	return errors.New("close error")
}
