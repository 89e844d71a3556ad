package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sync-bridge/models"
)

type progressMsg models.ProgressEvent

// programSink turns progress events into program messages.
type programSink struct {
	send func(tea.Msg)
}

// Deliver implements bridge.Sink by sending the event to the program.
func (s *programSink) Deliver(_ context.Context, event models.ProgressEvent) error {
	s.send(progressMsg(event))
	return nil
}
