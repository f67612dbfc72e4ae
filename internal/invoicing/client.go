package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/canchaclub/cancha-go/internal/domain"
)

// Client posts financial transactions to the external invoicing subsystem
// after a successful booking or edit. Fire-and-forget: failures are logged
// and never surface to the caller.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

type transaction struct {
	ReservationID string    `json:"reservation_id"`
	CourtID       int64     `json:"court_id"`
	ContactName   string    `json:"contact_name"`
	PaymentMethod string    `json:"payment_method"`
	PaidSessions  int       `json:"paid_sessions"`
	StartTime     time.Time `json:"start_time"`
	Kind          string    `json:"kind"`
}

// RecordBooking reports a new reservation to the invoicing subsystem.
func (c *Client) RecordBooking(ctx context.Context, r *domain.Reservation) {
	c.post(ctx, r, "booking")
}

// RecordUpdate reports an edited reservation.
func (c *Client) RecordUpdate(ctx context.Context, r *domain.Reservation) {
	c.post(ctx, r, "update")
}

func (c *Client) post(ctx context.Context, r *domain.Reservation, kind string) {
	if c.baseURL == "" {
		return
	}

	body, err := json.Marshal(transaction{
		ReservationID: r.ID.String(),
		CourtID:       r.CourtID,
		ContactName:   r.ContactName,
		PaymentMethod: string(r.PaymentMethod),
		PaidSessions:  r.PaidSessions,
		StartTime:     r.Start,
		Kind:          kind,
	})
	if err != nil {
		c.logger.Error("invoicing: marshal transaction", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("invoicing: build request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("invoicing: post transaction", "error", err, "reservation_id", r.ID)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("invoicing: transaction rejected", "status", resp.StatusCode, "reservation_id", r.ID)
	}
}
