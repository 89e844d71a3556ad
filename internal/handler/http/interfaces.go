package http

import (
	"github.com/MKhiriev/go-sync-bridge/internal/bridge"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// ActionDispatcher accepts actions for asynchronous execution.
// dispatcher.Dispatcher implements it.
type ActionDispatcher interface {
	Submit(req models.ActionRequest) (<-chan models.ActionResult, error)
}

// EventSource hands out progress event subscriptions. bridge.Hub implements it.
type EventSource interface {
	Subscribe() *bridge.Subscription
	Unsubscribe(sub *bridge.Subscription)
}
