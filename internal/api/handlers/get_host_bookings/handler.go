package get_host_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nowtown/NT-BookingService/internal/api/handlers"
	"github.com/nowtown/NT-BookingService/internal/api/middleware"
	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/internal/service/bookings"
)

const (
	msgInvalidHostID    = "некорректный идентификатор хоста"
	msgInvalidListingID = "некорректный идентификатор объявления"
	msgInvalidPeriod    = "некорректный период, ожидается RFC3339"
	msgInvalidFilter    = "некорректные параметры фильтрации"
	msgAccessDenied     = "доступ запрещен"
	msgUnauthorized     = "требуется аутентификация"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hosts/{hostId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil || hostID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	// Бронирования по своим объявлениям видит только сам хост
	if hostID != requesterID {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	filter := domain.HostBookingsFilter{HostID: hostID}
	query := r.URL.Query()

	if raw := query.Get("listingId"); raw != "" {
		listingID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || listingID <= 0 {
			handlers.RespondBadRequest(w, msgInvalidListingID)
			return
		}
		filter.ListingID = &listingID
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		filter.StartFrom = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		filter.StartTo = &to
	}

	if raw := query.Get("status"); raw != "" {
		status := domain.BookingStatus(raw)
		filter.Status = &status
	}

	result, err := h.service.GetHostBookings(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidFilter):
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /hosts/{hostId}/bookings - Failed: host_id=%d, error=%v", hostID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(result))
}
