package logger_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)

	lg.Info("configured board px4-v2")

	assert.Contains(t, buf.String(), "configured board px4-v2")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)

	lg.Warn("careful")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "careful")
}

func TestLogger_ErrorIncludesMetadata(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)

	err := zerr.With(zerr.Wrap(domain.ErrUnknownBoard, "failed to resolve board"), "board", "nosuch")
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failed to resolve board")
	assert.Contains(t, out, "board=nosuch")
}

func TestLogger_ErrorNil(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)

	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)
	lg.SetLevel(domain.LogLevelWarn)

	lg.Info("hidden")
	lg.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	lg := logger.NewWithWriter(&first)

	lg.SetOutput(&second)
	lg.Info("moved")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "moved")
}

func TestLogger_ConcurrentSetOutput(t *testing.T) {
	lg := logger.NewWithWriter(&bytes.Buffer{})

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			lg.SetOutput(&bytes.Buffer{})
		})
		wg.Go(func() {
			lg.Info("concurrent")
		})
	}
	wg.Wait()
}
