package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nowtown/NT-BookingService/internal/api/handlers"
	getAvailability "github.com/nowtown/NT-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidListingID = "некорректный идентификатор объявления"
	msgInvalidSlot      = "некорректный параметр slot, ожидается RFC3339"
	msgListingNotFound  = "объявление не найдено"
	msgInvalidInput     = "некорректные входные данные"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/listings/{listingId}/availability?slot=RFC3339
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.ParseInt(mux.Vars(r)["listingId"], 10, 64)
	if err != nil || listingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidListingID)
		return
	}

	slotStart, err := time.Parse(time.RFC3339, r.URL.Query().Get("slot"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ListingID: listingID,
		SlotStart: slotStart,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrListingNotFound):
			handlers.RespondNotFound(w, msgListingNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /listings/{listingId}/availability - Failed: listing_id=%d, error=%v", listingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
