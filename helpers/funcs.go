package helpers

import "math"

func Sum(numbers []float64) (total float64) {
	for _, x := range numbers {
		total += x
	}
	return total
}

func Mean(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0.0
	}
	return Sum(numbers) / float64(len(numbers))
}

// PopulationStdDev spreads around the mean with an N divisor, not N-1.
func PopulationStdDev(numbers []float64, mean float64) float64 {
	if len(numbers) < 2 {
		return 0.0
	}
	total := 0.0
	for _, number := range numbers {
		total += math.Pow(number-mean, 2)
	}
	variance := total / float64(len(numbers))
	return math.Sqrt(variance)
}

func PositiveNegativeRatio(list []float64) float64 {
	countPositive := 0
	countNegative := 0
	for _, item := range list {
		if item > 0 {
			countPositive++
		} else {
			countNegative++
		}
	}

	if countNegative == 0 {
		return 0
	}
	return float64(countPositive) / float64(countNegative)
}
