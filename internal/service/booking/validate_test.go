package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaclub/cancha-go/internal/domain"
)

var (
	futbolCourt = &domain.Court{ID: 1, Name: "Cancha 1", Type: domain.CourtFutbol}
	padelCourt  = &domain.Court{ID: 2, Name: "Padel A", Type: domain.CourtPadel}
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		contact string
		phone   string
		wantErr bool
	}{
		{"ok", "Diego", "555123456", false},
		{"empty name", "", "555123456", true},
		{"name too long", strings.Repeat("a", 51), "555123456", true},
		{"phone too short", "Diego", "12", true},
		{"phone too long", "Diego", strings.Repeat("1", 21), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContact(tt.contact, tt.phone)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateNotes(t *testing.T) {
	require.NoError(t, validateNotes(strings.Repeat("n", 255)))
	require.ErrorIs(t, validateNotes(strings.Repeat("n", 256)), ErrValidation)
}

func TestValidatePaymentMethod(t *testing.T) {
	for _, m := range []domain.PaymentMethod{
		domain.PaymentPending, domain.PaymentCash, domain.PaymentTransfer, domain.PaymentCard,
	} {
		assert.NoError(t, validatePaymentMethod(m))
	}
	assert.ErrorIs(t, validatePaymentMethod("crypto"), ErrValidation)
}

func TestValidateTiming_Futbol(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"on the hour", at(10, 0), at(11, 0), nil},
		{"half hour start", at(10, 30), at(11, 30), ErrGranularity},
		{"odd minute", at(10, 15), at(11, 15), ErrGranularity},
		{"ninety minutes", at(10, 0), at(11, 30), ErrValidation},
		{"thirty minutes", at(10, 0), at(10, 30), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTiming(futbolCourt, tt.start, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateTiming_Padel(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"on the hour", at(10, 0), at(11, 30), nil},
		{"on the half hour", at(9, 30), at(11, 0), nil},
		{"quarter hour start", at(10, 15), at(11, 45), ErrGranularity},
		{"sixty minutes", at(10, 0), at(11, 0), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTiming(padelCourt, tt.start, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateTiming_SubMinuteStart(t *testing.T) {
	start := at(10, 0).Add(30 * time.Second)
	require.ErrorIs(t, validateTiming(futbolCourt, start, start.Add(time.Hour)), ErrGranularity)
}

func TestValidateRecurrence(t *testing.T) {
	start := at(10, 0)
	after := start.AddDate(0, 0, 21)
	before := start.AddDate(0, 0, -7)

	require.NoError(t, validateRecurrence(false, start, nil))
	require.NoError(t, validateRecurrence(true, start, &after))
	require.ErrorIs(t, validateRecurrence(true, start, nil), ErrValidation)
	require.ErrorIs(t, validateRecurrence(true, start, &before), ErrValidation)
	require.ErrorIs(t, validateRecurrence(true, start, &start), ErrValidation)
}
