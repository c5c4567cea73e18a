package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/boards"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(t *testing.T, loader *mocks.MockProjectLoader) *app.Components {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logger.NewWithWriter(io.Discard)

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Close().Return(nil)

	return &app.Components{
		App: app.New(app.Dependencies{
			Loader:     loader,
			Configs:    mocks.NewMockConfigurationStore(ctrl),
			Boards:     boards.Builtin(),
			Discoverer: mocks.NewMockToolchainDiscoverer(ctrl),
			Resolver:   mocks.NewMockSourceResolver(ctrl),
			Manifests:  mocks.NewMockManifestReader(ctrl),
			Revisions:  mocks.NewMockRevisionReader(ctrl),
			Logger:     log,
		}),
		Logger:    log,
		Telemetry: telemetry,
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components := newComponents(t, mocks.NewMockProjectLoader(ctrl))

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"boards"}, stdout, new(bytes.Buffer),
		func(context.Context) (*app.Components, error) {
			return components, nil
		})

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "px4-v2\n")
}

// TestRun_CommandError verifies that a failing command is logged and yields 1.
func TestRun_CommandError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockProjectLoader(ctrl)
	loader.EXPECT().Load("missing.yaml").Return(nil, domain.ErrInvalidConfig)
	components := newComponents(t, loader)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"list", "-c", "missing.yaml"}, new(bytes.Buffer), stderr,
		func(context.Context) (*app.Components, error) {
			return components, nil
		})

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "invalid project configuration")
}

// TestRun_ProviderError verifies that initialization failures are reported.
func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"boards"}, new(bytes.Buffer), stderr,
		func(context.Context) (*app.Components, error) {
			return nil, errors.New("wiring failed")
		})

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: wiring failed")
}
