package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
)

const syncEventName = "sync"

// streamEvents relays progress events as server-sent events until the client
// disconnects or the subscription is dropped.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	rc := http.NewResponseController(w)

	sub := h.events.Subscribe()
	defer h.events.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		log.Err(err).Str("func", "*Handler.streamEvents").Msg(ErrStreamingUnsupported.Error())
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Done():
			log.Info().Msg("event subscription ended")
			return
		case event := <-sub.Events():
			data, err := json.Marshal(event)
			if err != nil {
				log.Err(err).Str("func", "*Handler.streamEvents").Msg("error encoding progress event")
				continue
			}
			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", syncEventName, data); err != nil {
				return
			}
			if err = rc.Flush(); err != nil {
				return
			}
		}
	}
}
