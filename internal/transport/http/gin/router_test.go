package httpgin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaclub/cancha-go/internal/repository"
	"github.com/canchaclub/cancha-go/internal/service/blocks"
	"github.com/canchaclub/cancha-go/internal/service/booking"
	"github.com/canchaclub/cancha-go/internal/service/query"
	"github.com/canchaclub/cancha-go/internal/service/registry"
)

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", booking.ErrValidation, http.StatusBadRequest, "validation"},
		{"granularity", booking.ErrGranularity, http.StatusBadRequest, "granularity"},
		{"slot unavailable", booking.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable"},
		{"event conflict", booking.ErrEventConflict, http.StatusConflict, "event_conflict"},
		{"concurrency conflict", booking.ErrConcurrencyConflict, http.StatusConflict, "concurrency_conflict"},
		{"reservation not found", booking.ErrNotFound, http.StatusNotFound, "not_found"},
		{"court not found", booking.ErrCourtNotFound, http.StatusNotFound, "not_found"},
		{"paid reservations under block", blocks.ErrPaidReservations, http.StatusConflict, "blocked_paid_reservations"},
		{"block not found", blocks.ErrNotFound, http.StatusNotFound, "not_found"},
		{"court exists", registry.ErrCourtExists, http.StatusConflict, "concurrency_conflict"},
		{"not recurring", query.ErrNotRecurring, http.StatusBadRequest, "validation"},
		{"commit-time conflict", fmt.Errorf("commit: %w", repository.ErrConflict), http.StatusConflict, "concurrency_conflict"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondErr(c, fmt.Errorf("service.op:%w", tt.err))

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

// A lost race must never look like a validation failure: callers refresh
// silently on one and re-prompt the user on the other.
func TestRespondErr_ConflictDistinctFromValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	kinds := make(map[string]bool)
	for _, err := range []error{booking.ErrConcurrencyConflict, booking.ErrValidation} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondErr(c, err)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		kinds[resp.Kind] = true
	}

	assert.Len(t, kinds, 2)
}
