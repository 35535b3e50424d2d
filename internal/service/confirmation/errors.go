package confirmation

import "errors"

// ErrIssueFailed возвращается, когда номер подтверждения не удалось выдать
// за отведенное число попыток
var ErrIssueFailed = errors.New("confirmation.service: failed to issue confirmation number")
