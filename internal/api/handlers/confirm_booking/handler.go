package confirm_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nowtown/NT-BookingService/internal/api/handlers"
	"github.com/nowtown/NT-BookingService/internal/api/middleware"
	confirmBooking "github.com/nowtown/NT-BookingService/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "доступ запрещен"
	msgStaleStatus      = "бронирование уже не ожидает подтверждения"
	msgCapacityLost     = "места по бронированию были освобождены, бронирование отменено"
	msgPaymentDeclined  = "платеж отклонен"
	msgUnauthorized     = "требуется аутентификация"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
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
	var req ConfirmBookingRequest
	if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid request body: %v", decodeErr)
	}

	useCaseReq := &confirmBooking.Request{
		BookingID:     bookingID,
		HostID:        hostID,
		PaymentMethod: req.PaymentMethod,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, confirmBooking.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, confirmBooking.ErrStaleStatus):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Stale status: booking_id=%d, host_id=%d", bookingID, hostID)
			handlers.RespondConflict(w, msgStaleStatus)

		case errors.Is(err, confirmBooking.ErrCapacityLost):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Capacity lost: booking_id=%d, host_id=%d", bookingID, hostID)
			handlers.RespondConflict(w, msgCapacityLost)

		case errors.Is(err, confirmBooking.ErrPaymentDeclined):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Payment declined: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentDeclined)

		case errors.Is(err, confirmBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirm - Failed: booking_id=%d, host_id=%d, error=%v", bookingID, hostID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Confirmed: booking_id=%d, host_id=%d", bookingID, hostID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
