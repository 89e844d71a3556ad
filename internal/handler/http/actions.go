package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-bridge/internal/actions"
	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/utils"
	"github.com/MKhiriev/go-sync-bridge/models"
)

const requestIDHeader = "X-Request-ID"

// runAction submits the action named in the path and writes its outcome.
func (h *Handler) runAction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	name := models.ParseActionName(chi.URLParam(r, "action"))

	args, err := decodeArgs(r.Body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runAction").Msg("invalid arguments object")
		h.writeActionError(w, &models.ActionError{
			Kind:    models.ErrorKindInvalidArguments,
			Message: err.Error(),
		}, http.StatusBadRequest)
		return
	}

	req := actions.NewRequest(name, args, h.defaultStoreName)
	if id, ok := utils.GetRequestIDFromContext(r.Context()); ok {
		req.ID = id
	}

	results, err := h.dispatcher.Submit(req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runAction").Str("action", string(name)).Msg("action not accepted")
		h.writeActionError(w, dispatcher.NewActionError(err, actions.Classify), statusFromSubmitError(err))
		return
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	select {
	case res := <-results:
		h.writeResult(w, res)
	case <-ctx.Done():
		log.Warn().
			Str("func", "*Handler.runAction").
			Str("action", string(name)).
			Err(ctx.Err()).
			Msg("request ended before the action outcome")
		h.writeActionError(w, &models.ActionError{
			Kind:    models.ErrorKindExecution,
			Message: ErrOutcomeTimeout.Error(),
		}, http.StatusGatewayTimeout)
	}
}

// writeResult writes a finished action: its error with the status of its
// kind, 204 for no payload, or the payload as JSON.
func (h *Handler) writeResult(w http.ResponseWriter, res models.ActionResult) {
	if res.RequestID != "" {
		w.Header().Set(requestIDHeader, res.RequestID)
	}

	if res.Err != nil {
		h.writeActionError(w, res.Err, statusFromKind(res.Err.Kind))
		return
	}

	if res.Payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if _, err := utils.WriteJSON(w, res.Payload, http.StatusOK); err != nil {
		h.logger.Err(err).Str("func", "*Handler.writeResult").Msg("error writing action result")
	}
}

func (h *Handler) writeActionError(w http.ResponseWriter, actionErr *models.ActionError, status int) {
	if _, err := utils.WriteJSON(w, actionErr, status); err != nil {
		h.logger.Err(err).
			Str("func", "*Handler.writeActionError").
			Str("kind", string(actionErr.Kind)).
			Msg("error writing action error")
	}
}

// decodeArgs reads the arguments object. An empty body is an empty object.
func decodeArgs(body io.Reader) (models.ActionArgs, error) {
	var args models.ActionArgs
	if body == nil {
		return args, nil
	}

	err := json.NewDecoder(body).Decode(&args)
	if errors.Is(err, io.EOF) {
		return models.ActionArgs{}, nil
	}
	if err != nil {
		return models.ActionArgs{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return args, nil
}
