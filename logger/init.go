package logger

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.elastic.co/ecslogrus"
)

// ExtraFieldHook injects the service name into every log entry
type ExtraFieldHook struct {
	service string
}

func newHook(service string) *ExtraFieldHook {
	return &ExtraFieldHook{service: service}
}

func (h *ExtraFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *ExtraFieldHook) Fire(entry *logrus.Entry) error {
	entry.Data["service.name"] = h.service
	return nil
}

// CreateLogger produces an ECS-formatted logger for the service
func CreateLogger(service string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&ecslogrus.Formatter{})
	l.AddHook(newHook(service))

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}
