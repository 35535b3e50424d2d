package pricing

import (
	"time"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/pkg/money"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Rates тарифные ставки платформы из конфигурации
// Сервисный сбор зависит от тарифного плана хоста, НДС единый
type Rates struct {
	VAT      money.BasisPoints
	PlanFees map[domain.HostPlan]money.BasisPoints
}

// FeeFor возвращает ставку сервисного сбора для плана хоста
// Неизвестный план тарифицируется как standard
func (r Rates) FeeFor(plan domain.HostPlan) money.BasisPoints {
	if fee, ok := r.PlanFees[plan]; ok {
		return fee
	}
	return r.PlanFees[domain.PlanStandard]
}

// Params параметры расчета цены
// Для event и service значим Quantity (билеты, сессии),
// для space - интервал StartAt..EndAt
type Params struct {
	Quantity int
	StartAt  time.Time
	EndAt    time.Time
}
