package confirmation

import (
	"context"
	"errors"
	"fmt"

	storage "github.com/nowtown/NT-BookingService/internal/infra/storage/booking"
	"github.com/nowtown/NT-BookingService/pkg/confirmcode"
)

// Попытки перегенерации при коллизии уникального индекса
// Вероятность коллизии на 31^8 вариантах ничтожна, но индекс её ловит
const maxGenerateAttempts = 3

// Service выдает человекочитаемые номера подтверждения
// Выдача идемпотентна: повторный вызов для бронирования с уже назначенным
// номером возвращает существующий номер, а не генерирует новый
type Service struct {
	codes  CodeWriter
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(codes CodeWriter, logger Logger) *Service {
	return &Service{
		codes:  codes,
		logger: logger,
	}
}

// Issue назначает бронированию номер подтверждения и возвращает его
func (s *Service) Issue(ctx context.Context, bookingID int64) (string, error) {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		code, err := confirmcode.Generate()
		if err != nil {
			return "", fmt.Errorf("confirmation.service: Issue - generate code: %w", err)
		}

		assigned, err := s.codes.SetConfirmationNumber(ctx, bookingID, code)
		if err == nil {
			if assigned != code {
				s.logger.Info("confirmation: booking %d already has number %s", bookingID, assigned)
			}
			return assigned, nil
		}

		if errors.Is(err, storage.ErrDuplicateConfirmation) {
			s.logger.Warn("confirmation: code collision for booking %d, retrying (%d/%d)", bookingID, attempt, maxGenerateAttempts)
			continue
		}

		return "", fmt.Errorf("confirmation.service: Issue - persist code: %w", err)
	}

	return "", ErrIssueFailed
}
