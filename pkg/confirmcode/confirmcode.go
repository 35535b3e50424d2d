package confirmcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// Алфавит без визуально похожих символов (0/O, 1/I/L), чтобы номер
// можно было продиктовать по телефону без ошибок
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// Длина случайной части номера подтверждения
const bodyLength = 8

const prefix = "NW"

var (
	// ErrInvalidFormat возвращается, когда строка не похожа на номер подтверждения
	ErrInvalidFormat = errors.New("confirmcode: invalid format")

	// ErrChecksumMismatch возвращается, когда контрольный символ не сходится
	ErrChecksumMismatch = errors.New("confirmcode: checksum mismatch")
)

// Generate генерирует номер подтверждения вида "NW-XXXXXXXX-C",
// где C - контрольный символ для отлова опечаток при ручном вводе
func Generate() (string, error) {
	buf := make([]byte, bodyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("confirmcode: failed to read random bytes: %w", err)
	}

	body := make([]byte, bodyLength)
	for i, b := range buf {
		body[i] = alphabet[int(b)%len(alphabet)]
	}

	check := checksum(string(body))
	return fmt.Sprintf("%s-%s-%c", prefix, string(body), check), nil
}

// Validate проверяет формат и контрольный символ номера подтверждения
func Validate(code string) error {
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != prefix || len(parts[1]) != bodyLength || len(parts[2]) != 1 {
		return ErrInvalidFormat
	}

	for _, c := range parts[1] {
		if !strings.ContainsRune(alphabet, c) {
			return ErrInvalidFormat
		}
	}

	if checksum(parts[1]) != parts[2][0] {
		return ErrChecksumMismatch
	}

	return nil
}

// checksum взвешенная сумма индексов символов по модулю длины алфавита
// Веса по позиции ловят не только замену символа, но и перестановку соседних
func checksum(body string) byte {
	sum := 0
	for i, c := range body {
		sum += (i + 1) * strings.IndexRune(alphabet, c)
	}
	return alphabet[sum%len(alphabet)]
}
