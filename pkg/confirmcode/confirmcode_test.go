package confirmcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "NW", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 1)
}

func TestGenerate_ValidatesItself(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.NoError(t, Validate(code))
	}
}

func TestValidate_CatchesTypo(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	// Подменяем один символ случайной части на другой символ алфавита
	body := []byte(code)
	pos := 4
	original := body[pos]
	for _, c := range []byte(alphabet) {
		if c != original {
			body[pos] = c
			break
		}
	}

	assert.Error(t, Validate(string(body)))
}

func TestValidate_CatchesTransposition(t *testing.T) {
	// Перестановка соседних различных символов должна ломать контрольный символ
	body := "ABCDEFGH"
	code := "NW-" + body + "-" + string(checksum(body))
	require.NoError(t, Validate(code))

	swapped := "BACDEFGH"
	assert.Error(t, Validate("NW-"+swapped+"-"+string(checksum(body))))
}

func TestValidate_RejectsGarbage(t *testing.T) {
	assert.ErrorIs(t, Validate(""), ErrInvalidFormat)
	assert.ErrorIs(t, Validate("NW-SHORT-X"), ErrInvalidFormat)
	assert.ErrorIs(t, Validate("XX-ABCDEFGH-A"), ErrInvalidFormat)
	assert.ErrorIs(t, Validate("NW-ABCDEFG0-A"), ErrInvalidFormat) // 0 не входит в алфавит
}
