package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nowtown/NT-BookingService/internal/api/handlers"
	"github.com/nowtown/NT-BookingService/internal/api/middleware"
	cancelBooking "github.com/nowtown/NT-BookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "доступ запрещен"
	msgStaleStatus      = "бронирование уже нельзя отменить"
	msgInvalidInput     = "некорректные параметры отмены"
	msgUnauthorized     = "требуется аутентификация"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || bookingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально
	var req CancelBookingRequest
	if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", decodeErr)
	}

	useCaseReq := &cancelBooking.Request{
		BookingID:   bookingID,
		RequesterID: requesterID,
		Reason:      req.Reason,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, cancelBooking.ErrStaleStatus):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Stale status: booking_id=%d, requester_id=%d", bookingID, requesterID)
			handlers.RespondConflict(w, msgStaleStatus)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, requester_id=%d, error=%v", bookingID, requesterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Cancelled: booking_id=%d, by=%s, refund=%d%%",
		bookingID, result.CancelledBy, result.RefundPercent)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
