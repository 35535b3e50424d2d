package confirmation

import "context"

// CodeWriter интерфейс хранилища для записи номера подтверждения
type CodeWriter interface {
	SetConfirmationNumber(ctx context.Context, id int64, code string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
