package actions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/internal/locator"
	"github.com/MKhiriev/go-sync-bridge/internal/service"
	"github.com/MKhiriev/go-sync-bridge/internal/store"
	"github.com/MKhiriev/go-sync-bridge/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want models.ErrorKind
	}{
		{fmt.Errorf("%w: syncId is required", ErrInvalidArguments), models.ErrorKindInvalidArguments},
		{service.ErrNoSoupName, models.ErrorKindInvalidArguments},
		{fmt.Errorf("create: %w", service.ErrInvalidTarget), models.ErrorKindInvalidArguments},
		{fmt.Errorf("%w: \"../x\"", locator.ErrInvalidStoreName), models.ErrorKindInvalidArguments},
		{fmt.Errorf("%w: id=42", service.ErrSyncNotFound), models.ErrorKindNotFound},
		{fmt.Errorf("store: %w", store.ErrStoreNotFound), models.ErrorKindNotFound},
		{service.ErrInvalidSyncState, models.ErrorKindInvalidState},
		{fmt.Errorf("%w: \"drop\"", dispatcher.ErrUnknownAction), models.ErrorKindRouting},
		{errors.New("connection reset"), models.ErrorKindExecution},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
