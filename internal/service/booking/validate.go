package booking

import (
	"fmt"
	"time"

	"github.com/canchaclub/cancha-go/internal/domain"
)

const (
	maxNameLen  = 50
	minPhoneLen = 3
	maxPhoneLen = 20
	maxNotesLen = 255
)

func validateContact(name, phone string) error {
	if name == "" || len(name) > maxNameLen {
		return fmt.Errorf("%w: contact name must be 1-%d characters", ErrValidation, maxNameLen)
	}
	if len(phone) < minPhoneLen || len(phone) > maxPhoneLen {
		return fmt.Errorf("%w: contact phone must be %d-%d characters", ErrValidation, minPhoneLen, maxPhoneLen)
	}
	return nil
}

func validateNotes(notes string) error {
	if len(notes) > maxNotesLen {
		return fmt.Errorf("%w: payment notes must be at most %d characters", ErrValidation, maxNotesLen)
	}
	return nil
}

func validatePaymentMethod(m domain.PaymentMethod) error {
	if !m.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, m)
	}
	return nil
}

// validateTiming enforces the court-type invariants: futbol starts on the
// hour, padel on the half hour, and the session length is fixed by the type.
func validateTiming(court *domain.Court, start, end time.Time) error {
	if start.Second() != 0 || start.Nanosecond() != 0 {
		return fmt.Errorf("%w: start must be a whole minute", ErrGranularity)
	}

	switch court.Type {
	case domain.CourtFutbol:
		if start.Minute() != 0 {
			return fmt.Errorf("%w: futbol sessions start on the hour", ErrGranularity)
		}
	case domain.CourtPadel:
		if m := start.Minute(); m != 0 && m != 30 {
			return fmt.Errorf("%w: padel sessions start on the hour or half hour", ErrGranularity)
		}
	}

	if end.Sub(start) != court.Type.SessionDuration() {
		return fmt.Errorf("%w: %s sessions last %s", ErrValidation, court.Type, court.Type.SessionDuration())
	}

	return nil
}

func validateRecurrence(isRecurring bool, start time.Time, recurrenceEnd *time.Time) error {
	if !isRecurring {
		return nil
	}
	if recurrenceEnd == nil {
		return fmt.Errorf("%w: recurring reservations need a recurrence end", ErrValidation)
	}
	if !recurrenceEnd.After(start) {
		return fmt.Errorf("%w: recurrence end must be after the first session", ErrValidation)
	}
	return nil
}
