package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newBufferedLogger(t *testing.T, level logrus.Level) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := NewWithOutput(&buf)
	logger.log.SetLevel(level)
	logger.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, &buf
}

func TestNew_WritesToStderrByDefault(t *testing.T) {
	logger := New()
	if logger == nil || logger.log == nil {
		t.Fatal("New() returned an unusable logger")
	}
}

func TestNewWithOutput_LevelFromEnv(t *testing.T) {
	tests := []struct {
		envValue string
		expected logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"trace", logrus.TraceLevel},
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.envValue, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envValue)

			logger := NewWithOutput(&bytes.Buffer{})
			if logger.log.GetLevel() != tt.expected {
				t.Errorf("level = %v; want %v", logger.log.GetLevel(), tt.expected)
			}
		})
	}
}

func TestGetLogrus(t *testing.T) {
	logger, _ := newBufferedLogger(t, logrus.InfoLevel)
	if logger.GetLogrus() != logger.log {
		t.Error("GetLogrus() did not return the underlying logrus instance")
	}
}

func TestLevels_Output(t *testing.T) {
	tests := []struct {
		name string
		emit func(l *Logger)
		want []string
	}{
		{"Debug", func(l *Logger) { l.Debug("debug %d", 1) }, []string{"debug 1"}},
		{"Info", func(l *Logger) { l.Info("info %s", "x") }, []string{"info x"}},
		{"Warn", func(l *Logger) { l.Warn("careful") }, []string{"careful", "level=warning"}},
		{"Error", func(l *Logger) { l.Error("broken") }, []string{"broken", "level=error"}},
		{"ErrorWithFields", func(l *Logger) {
			l.ErrorWithFields(logrus.Fields{"worker": "producer0"}, "failed")
		}, []string{"failed", "worker=producer0"}},
		{"InfoWithFields", func(l *Logger) {
			l.InfoWithFields(logrus.Fields{"threads": 4}, "dispatch")
		}, []string{"dispatch", "threads=4"}},
		{"DebugWithFields", func(l *Logger) {
			l.DebugWithFields(logrus.Fields{"id": "123"}, "detail")
		}, []string{"detail", "id=123"}},
		{"WithField", func(l *Logger) { l.WithField("topic", "t1").Info("sent") }, []string{"sent", "topic=t1"}},
		{"WithFields", func(l *Logger) {
			l.WithFields(logrus.Fields{"a": "1", "b": "2"}).Info("both")
		}, []string{"both", "a=1", "b=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedLogger(t, logrus.DebugLevel)
			tt.emit(logger)

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output, got: %s", want, output)
				}
			}
		})
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	logger, buf := newBufferedLogger(t, logrus.InfoLevel)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got: %s", buf.String())
	}
}
