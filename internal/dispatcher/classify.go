package dispatcher

import (
	"errors"

	"github.com/MKhiriev/go-sync-bridge/models"
)

// Classifier maps a handler error to the kind reported to the caller.
type Classifier func(err error) models.ErrorKind

// KindTable is a Classifier built from sentinel errors, checked in order with
// errors.Is. Errors matching none of them are execution errors.
type KindTable []KindRule

// KindRule maps errors matching Err (by errors.Is) to Kind.
type KindRule struct {
	Err  error
	Kind models.ErrorKind
}

// Classify implements Classifier. ErrUnknownAction is always a routing error
// and an *models.ActionError in the chain keeps its own kind; the table rules
// are checked after those.
func (t KindTable) Classify(err error) models.ErrorKind {
	if errors.Is(err, ErrUnknownAction) {
		return models.ErrorKindRouting
	}

	var actionErr *models.ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Kind
	}

	for _, rule := range t {
		if errors.Is(err, rule.Err) {
			return rule.Kind
		}
	}
	return models.ErrorKindExecution
}

// NewActionError builds the caller-facing descriptor for err.
func NewActionError(err error, classify Classifier) *models.ActionError {
	var actionErr *models.ActionError
	if errors.As(err, &actionErr) {
		return actionErr
	}
	return &models.ActionError{
		Kind:    classify(err),
		Message: err.Error(),
	}
}
