package sweep_bookings

import "errors"

// ErrInternal возвращается при внутренних ошибках фонового прохода
var ErrInternal = errors.New("sweep_bookings: internal error")
