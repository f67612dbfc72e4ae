package httpgin

import "time"

type CreateReservationRequest struct {
	CourtID       int64  `json:"court_id" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	ContactName   string `json:"contact_name" binding:"required"`
	ContactPhone  string `json:"contact_phone" binding:"required"`
	PaymentMethod string `json:"payment_method"`
	IsRecurring   bool   `json:"is_recurring"`
	RecurrenceEnd string `json:"recurrence_end"`
	PaidSessions  int    `json:"paid_sessions"`
	PaymentNotes  string `json:"payment_notes"`
}

// UpdateReservationRequest: absent fields stay unchanged.
type UpdateReservationRequest struct {
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	ContactName   *string `json:"contact_name"`
	ContactPhone  *string `json:"contact_phone"`
	PaymentMethod *string `json:"payment_method"`
	PaidSessions  *int    `json:"paid_sessions"`
	PaymentNotes  *string `json:"payment_notes"`
}

type CreateBlockRequest struct {
	Name      string  `json:"name" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	CourtIDs  []int64 `json:"court_ids" binding:"required,min=1,dive,required"`
}

type CreateCourtRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// ErrorResponse carries a human-readable reason plus a machine-readable
// kind, so callers can tell a concurrency loss (refresh silently) from a
// validation failure (re-prompt the user).
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
