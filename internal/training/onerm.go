package training

import "math"

// EstimateOneRM оценивает одноповторный максимум по формуле Эпли:
// 1RM = вес * (1 + 0.0333 * повторы)
func EstimateOneRM(weightKG float64, reps int) float64 {
	if weightKG <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKG
	}
	return math.Round(weightKG*(1+0.0333*float64(reps))*100) / 100
}
