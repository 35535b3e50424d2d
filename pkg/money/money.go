package money

import "fmt"

// Amount денежная сумма в минорных единицах валюты (центы, копейки)
// Все расчеты ведутся в int64, плавающая точка не используется
type Amount int64

// BasisPoints ставка в базисных пунктах: 10000 = 100%, 1000 = 10%
type BasisPoints int64

const bpDenominator = 10000

// ApplyRate умножает сумму на ставку с округлением round-half-up
// Определена только для неотрицательных сумм и ставок
func ApplyRate(a Amount, rate BasisPoints) Amount {
	if a < 0 || rate < 0 {
		return 0
	}
	return Amount((int64(a)*int64(rate) + bpDenominator/2) / bpDenominator)
}

// Mul умножает сумму на целочисленное количество
func Mul(a Amount, quantity int64) Amount {
	return Amount(int64(a) * quantity)
}

// Min возвращает меньшую из двух сумм
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// String форматирует сумму как число с двумя знаками после запятой ("123.45")
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
