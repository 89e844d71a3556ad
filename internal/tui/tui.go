// Package tui renders a live terminal monitor of sync progress.
//
// The monitor is a bubbletea program fed by a bridge sink: every progress
// event delivered to the sink becomes a message for the program.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sync-bridge/internal/bridge"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// ErrUserQuit is returned by Run when the user closes the monitor.
var ErrUserQuit = errors.New("monitor closed by user")

// TUI runs the progress monitor as a bubbletea program.
type TUI struct {
	program *tea.Program
	logger  *logger.Logger
}

// New creates the monitor. Start it with Run before any event reaches Sink:
// delivery waits for the program to read it.
func New(buildInfo models.AppBuildInfo, logger *logger.Logger, opts ...tea.ProgramOption) *TUI {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &TUI{
		program: tea.NewProgram(newMonitorModel(buildInfo), opts...),
		logger:  logger,
	}
}

// Sink returns the bridge sink that feeds this monitor.
func (t *TUI) Sink() bridge.Sink {
	return &programSink{send: t.program.Send}
}

// Run blocks until the program exits. It returns ErrUserQuit when the user
// quit and nil when ctx was cancelled.
func (t *TUI) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, t.program.Kill)
	defer stop()

	final, err := t.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		t.logger.Info().Msg("monitor stopped")
		return nil
	}
	if err != nil {
		return err
	}

	if m, ok := final.(monitorModel); ok && m.quitByUser {
		return ErrUserQuit
	}
	return nil
}
