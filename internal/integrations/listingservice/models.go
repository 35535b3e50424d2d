package listingservice

import "github.com/nowtown/NT-BookingService/internal/domain"

// Listing модель объявления из ListingService
// Это read-only представление: сервис бронирований никогда не изменяет объявления
type Listing struct {
	ID       int64  `json:"id"`
	HostID   int64  `json:"host_id"`
	Type     string `json:"type"` // event | space | service
	Title    string `json:"title"`

	BasePrice   int64  `json:"base_price"` // минорные единицы валюты
	Currency    string `json:"currency"`
	PricingUnit string `json:"pricing_unit"` // per_ticket | per_hour | per_day | per_session

	// Вместимость слота; nil = без ограничения
	Capacity *int `json:"capacity,omitempty"`

	InstantBooking bool `json:"instant_booking"`

	// Минимальная длительность бронирования для space-объявлений, в часах
	MinBookingHours int `json:"min_booking_hours"`

	// Early-bird цена и квота для event-объявлений
	EarlyBirdPrice *int64 `json:"early_bird_price,omitempty"`
	EarlyBirdQuota int    `json:"early_bird_quota"`

	HostPlan string `json:"host_plan"` // standard | plus | pro

	// Политика при отклонении платежа: keep_pending | cancel
	PaymentFailurePolicy string `json:"payment_failure_policy"`

	CancellationPolicy []PolicyTier `json:"cancellation_policy"`
}

// PolicyTier ступень тарифной политики отмены
type PolicyTier struct {
	HoursBefore   int `json:"hours_before"`
	RefundPercent int `json:"refund_percent"`
}

// DomainType возвращает тип объявления в терминах domain
func (l *Listing) DomainType() domain.ListingType {
	return domain.ListingType(l.Type)
}

// DomainPolicy конвертирует политику отмены в domain-модель
// Пустая политика означает дефолтную (подставляется на стороне domain)
func (l *Listing) DomainPolicy() []domain.PolicyTier {
	if len(l.CancellationPolicy) == 0 {
		return nil
	}
	tiers := make([]domain.PolicyTier, len(l.CancellationPolicy))
	for i, t := range l.CancellationPolicy {
		tiers[i] = domain.PolicyTier{HoursBefore: t.HoursBefore, RefundPercent: t.RefundPercent}
	}
	return tiers
}

// FailurePolicy возвращает политику обработки отклоненного платежа
// Неизвестное значение трактуется как keep_pending (наименее разрушительный вариант)
func (l *Listing) FailurePolicy() domain.PaymentFailurePolicy {
	if l.PaymentFailurePolicy == string(domain.PaymentFailureCancel) {
		return domain.PaymentFailureCancel
	}
	return domain.PaymentFailureKeepPending
}

// ErrorResponse модель ошибки от ListingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
