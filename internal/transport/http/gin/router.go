package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/canchaclub/cancha-go/internal/domain"
	"github.com/canchaclub/cancha-go/internal/repository"
	redisrepo "github.com/canchaclub/cancha-go/internal/repository/redis"
	"github.com/canchaclub/cancha-go/internal/service"
	"github.com/canchaclub/cancha-go/internal/service/blocks"
	"github.com/canchaclub/cancha-go/internal/service/booking"
	"github.com/canchaclub/cancha-go/internal/service/query"
	"github.com/canchaclub/cancha-go/internal/service/registry"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/courts", handleListCourts(svcs))
	r.GET("/courts/:id/availability", handleAvailability(svcs))
	r.GET("/calendar/week", handleWeekView(svcs))

	r.GET("/reservations/:id", handleGetReservation(svcs))
	r.GET("/reservations/:id/payments", handleSeriesPayments(svcs))
	r.POST("/reservations", handleCreateReservation(svcs, idem))
	r.PUT("/reservations/:id", handleUpdateReservation(svcs))
	r.DELETE("/reservations/:id", handleCancelReservation(svcs))

	r.POST("/blocks", handleCreateBlock(svcs))
	r.PUT("/blocks/:id", handleUpdateBlock(svcs))
	r.DELETE("/blocks/:id", handleDeleteBlock(svcs))

	// Admin-API
	// TODO: add admin middleware once the auth collaborator lands
	admin := r.Group("/admin")
	{
		admin.POST("/courts", handleCreateCourt(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List courts
// @Success  200  {array}  domain.Court
// @Router   /courts [get]
func handleListCourts(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		courts, err := svcs.Query.Courts(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, courts, "public, max-age=60")
	}
}

// @Summary  Court availability for a window
// @Param    id     path   int     true  "Court ID"
// @Param    start  query  string  true  "RFC3339"
// @Param    end    query  string  true  "RFC3339"
// @Success  200  {object}  schedule.Availability
// @Failure  404  {object}  ErrorResponse
// @Router   /courts/{id}/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		courtID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		from, to, ok := parseWindow(c)
		if !ok {
			return
		}

		avail, err := svcs.Query.Availability(c.Request.Context(), courtID, from, to)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, avail, "public, max-age=15")
	}
}

// @Summary  Week calendar view
// @Param    start  query  string  true  "RFC3339"
// @Param    end    query  string  true  "RFC3339"
// @Success  200  {array}  schedule.DayBucket
// @Router   /calendar/week [get]
func handleWeekView(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := parseWindow(c)
		if !ok {
			return
		}

		days, err := svcs.Query.WeekView(c.Request.Context(), from, to)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, gin.H{"days": days}, "public, max-age=15")
	}
}

// @Summary  Get reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200  {object}  domain.Reservation
// @Failure  404  {object}  ErrorResponse
// @Router   /reservations/{id} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Query.Reservation(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Series payment status
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200  {object}  domain.SeriesPayments
// @Failure  404  {object}  ErrorResponse
// @Router   /reservations/{id}/payments [get]
func handleSeriesPayments(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		payments, err := svcs.Query.SeriesPayments(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// @Summary  Create reservation (idempotent)
// @Param    req body  CreateReservationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Reservation
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "slot taken / event conflict / concurrency loss"
// @Router   /reservations [post]
func handleCreateReservation(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		start, err := parseRFC3339(req.StartTime)
		if err != nil {
			badRequest(c, "invalid start_time (RFC3339)")
			return
		}
		end, err := parseRFC3339(req.EndTime)
		if err != nil {
			badRequest(c, "invalid end_time (RFC3339)")
			return
		}

		var recurrenceEnd *time.Time
		if req.RecurrenceEnd != "" {
			t, err := parseRFC3339(req.RecurrenceEnd)
			if err != nil {
				badRequest(c, "invalid recurrence_end (RFC3339)")
				return
			}
			recurrenceEnd = &t
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(req.CourtID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{
					Error: "idempotency key in progress",
					Kind:  "concurrency_conflict",
				})
				return
			}
		}

		res, err := svcs.Booking.Create(c.Request.Context(), booking.CreateRequest{
			CourtID:       req.CourtID,
			Start:         start,
			End:           end,
			ContactName:   req.ContactName,
			ContactPhone:  req.ContactPhone,
			PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
			IsRecurring:   req.IsRecurring,
			RecurrenceEnd: recurrenceEnd,
			PaidSessions:  req.PaidSessions,
			PaymentNotes:  req.PaymentNotes,
		})
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(res)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, res)
	}
}

// @Summary  Update reservation
// @Param    id   path  string                   true "Reservation ID (uuid)"
// @Param    req  body  UpdateReservationRequest true "mutable fields"
// @Success  200 {object} domain.Reservation
// @Failure  409 {object} ErrorResponse
// @Router   /reservations/{id} [put]
func handleUpdateReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req UpdateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		upd := booking.UpdateRequest{
			ID:           id,
			ContactName:  req.ContactName,
			ContactPhone: req.ContactPhone,
			PaidSessions: req.PaidSessions,
			PaymentNotes: req.PaymentNotes,
		}

		if req.StartTime != nil {
			t, err := parseRFC3339(*req.StartTime)
			if err != nil {
				badRequest(c, "invalid start_time (RFC3339)")
				return
			}
			upd.Start = &t
		}
		if req.EndTime != nil {
			t, err := parseRFC3339(*req.EndTime)
			if err != nil {
				badRequest(c, "invalid end_time (RFC3339)")
				return
			}
			upd.End = &t
		}
		if req.PaymentMethod != nil {
			m := domain.PaymentMethod(*req.PaymentMethod)
			upd.PaymentMethod = &m
		}

		res, err := svcs.Booking.Update(c.Request.Context(), upd)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Cancel reservation (whole series when recurring)
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Router   /reservations/{id} [delete]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.Cancel(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create block event
// @Param    req body  CreateBlockRequest true "payload"
// @Success  201 {object} domain.BlockEvent
// @Failure  409 {object} ErrorResponse "would override paid reservations"
// @Router   /blocks [post]
func handleCreateBlock(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindBlockRequest(c)
		if !ok {
			return
		}
		block, err := svcs.Blocks.Create(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, block)
	}
}

// @Summary  Update block event
// @Param    id   path  string             true "Block ID (uuid)"
// @Param    req  body  CreateBlockRequest true "payload"
// @Success  200 {object} domain.BlockEvent
// @Router   /blocks/{id} [put]
func handleUpdateBlock(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		req, ok := bindBlockRequest(c)
		if !ok {
			return
		}
		block, err := svcs.Blocks.Update(c.Request.Context(), id, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, block)
	}
}

// @Summary  Delete block event
// @Param    id  path  string  true  "Block ID (uuid)"
// @Success  204
// @Router   /blocks/{id} [delete]
func handleDeleteBlock(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Blocks.Delete(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create court
// @Param    req body  CreateCourtRequest true "payload"
// @Success  201 {object} domain.Court
// @Router   /admin/courts [post]
func handleCreateCourt(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCourtRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		court, err := svcs.Registry.CreateCourt(c.Request.Context(), req.Name, domain.CourtType(req.Type))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, court)
	}
}

// --- Helpers ---

func bindBlockRequest(c *gin.Context) (blocks.CreateRequest, bool) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return blocks.CreateRequest{}, false
	}
	start, err := parseRFC3339(req.StartTime)
	if err != nil {
		badRequest(c, "invalid start_time (RFC3339)")
		return blocks.CreateRequest{}, false
	}
	end, err := parseRFC3339(req.EndTime)
	if err != nil {
		badRequest(c, "invalid end_time (RFC3339)")
		return blocks.CreateRequest{}, false
	}
	return blocks.CreateRequest{
		Name:     req.Name,
		Start:    start,
		End:      end,
		CourtIDs: req.CourtIDs,
	}, true
}

func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := parseRFC3339(c.Query("start"))
	if err != nil {
		badRequest(c, "invalid start (RFC3339)")
		return time.Time{}, time.Time{}, false
	}
	to, err := parseRFC3339(c.Query("end"))
	if err != nil {
		badRequest(c, "invalid end (RFC3339)")
		return time.Time{}, time.Time{}, false
	}
	if !to.After(from) {
		badRequest(c, "end must be after start")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: "validation"})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "validation"})
	case errors.Is(err, booking.ErrGranularity):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "granularity"})
	case errors.Is(err, booking.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "slot_unavailable"})
	case errors.Is(err, booking.ErrEventConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "event_conflict"})
	case errors.Is(err, booking.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "concurrency_conflict"})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found", Kind: "not_found"})
	case errors.Is(err, booking.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "court not found", Kind: "not_found"})

	// blocks service
	case errors.Is(err, blocks.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "validation"})
	case errors.Is(err, blocks.ErrPaidReservations):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "blocked_paid_reservations"})
	case errors.Is(err, blocks.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "block event not found", Kind: "not_found"})
	case errors.Is(err, blocks.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "court not found", Kind: "not_found"})

	// registry service
	case errors.Is(err, registry.ErrInvalidCourt):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "validation"})
	case errors.Is(err, registry.ErrCourtExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "court already exists", Kind: "concurrency_conflict"})
	case errors.Is(err, registry.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "court not found", Kind: "not_found"})

	// query service
	case errors.Is(err, query.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "court not found", Kind: "not_found"})
	case errors.Is(err, query.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found", Kind: "not_found"})
	case errors.Is(err, query.ErrNotRecurring):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reservation is not a recurring series", Kind: "validation"})

	// A serialization failure at commit time is a race lost, not a server
	// fault. Surfaces here when no service-level sentinel wrapped it.
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "another request changed the schedule first", Kind: "concurrency_conflict"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: "internal"})
	}
}
