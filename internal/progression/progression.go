// Package progression реализует линейную прогрессию нагрузки между тренировками.
package progression

import "math"

const (
	// DefaultStartWeight используется, когда истории по упражнению ещё нет
	DefaultStartWeight = 20.0

	heavyIncrement = 2.5 // для силовых диапазонов (до 6 повторов)
	lightIncrement = 2.0

	deloadFactor = 0.9

	// FailStreakForDeload - сколько неудачных тренировок подряд ведут к разгрузке
	FailStreakForDeload = 2
)

// NextLoad возвращает рабочий вес на следующую тренировку.
// lastWeight == nil означает, что упражнение выполняется впервые.
// success - выполнил ли атлет целевые повторы во всех подходах.
func NextLoad(lastWeight *float64, repGoal int, success bool) float64 {
	if lastWeight == nil {
		return DefaultStartWeight
	}
	if !success {
		return round1(*lastWeight)
	}
	inc := lightIncrement
	if repGoal <= 6 {
		inc = heavyIncrement
	}
	return round1(*lastWeight + inc)
}

// ShouldDeload сообщает, пора ли сбрасывать вес
func ShouldDeload(failStreak int) bool {
	return failStreak >= FailStreakForDeload
}

// DeloadWeight возвращает вес после разгрузки
func DeloadWeight(lastWeight float64) float64 {
	return round1(lastWeight * deloadFactor)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
