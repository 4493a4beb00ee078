package utils

// RoundDecimal rounds a float64 value to the specified number of decimal places.
// For example, RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := 1.0
	for i := 0; i < decimals; i++ {
		pow *= 10
	}

	return float64(int(value*pow+0.5)) / pow
}

// Percent returns part/total as a percentage rounded to one decimal place.
// A zero total yields 0 rather than NaN.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return RoundDecimal(float64(part)/float64(total)*100, 1)
}
