package training

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsedSet представляет один разобранный подход из команды /log
type ParsedSet struct {
	Exercise string
	WeightKG float64
	Reps     int
	RPE      float64 // 0 если не указан
	Warmup   bool
}

// Формат: "<упражнение> <вес>x<повторы> [rpe<n>] [w|warmup]"
// Примеры: "bench 100x5", "присед 120,5x3 rpe8", "bench 60x10 w"
var setPattern = regexp.MustCompile(`^(.+?)\s+(\d+(?:[.,]\d+)?)\s*[xх×]\s*(\d+)(.*)$`)

var rpePattern = regexp.MustCompile(`(?i)\brpe\s*(\d+(?:[.,]\d+)?)\b`)

// ParseSet парсит одну строку записи подхода
func ParseSet(text string) (*ParsedSet, error) {
	line := strings.TrimSpace(text)
	if line == "" {
		return nil, fmt.Errorf("пустая строка")
	}

	matches := setPattern.FindStringSubmatch(line)
	if matches == nil {
		return nil, fmt.Errorf("не удалось разобрать подход: %q", text)
	}

	set := &ParsedSet{
		Exercise: strings.TrimSpace(matches[1]),
	}

	weight, err := strconv.ParseFloat(strings.Replace(matches[2], ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("некорректный вес: %q", matches[2])
	}
	set.WeightKG = weight

	reps, err := strconv.Atoi(matches[3])
	if err != nil || reps <= 0 {
		return nil, fmt.Errorf("некорректное число повторов: %q", matches[3])
	}
	set.Reps = reps

	tail := strings.TrimSpace(matches[4])
	if tail != "" {
		if rm := rpePattern.FindStringSubmatch(tail); rm != nil {
			rpe, _ := strconv.ParseFloat(strings.Replace(rm[1], ",", ".", 1), 64)
			if rpe < 1 || rpe > 10 {
				return nil, fmt.Errorf("RPE вне диапазона 1-10: %v", rpe)
			}
			set.RPE = rpe
			tail = strings.TrimSpace(rpePattern.ReplaceAllString(tail, ""))
		}
		for _, tok := range strings.Fields(tail) {
			switch strings.ToLower(tok) {
			case "w", "warmup", "разминка":
				set.Warmup = true
			default:
				return nil, fmt.Errorf("непонятный хвост записи: %q", tok)
			}
		}
	}

	if err := validateSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

// validateSet проверяет разумность значений подхода
func validateSet(s *ParsedSet) error {
	if s.Exercise == "" {
		return fmt.Errorf("не указано упражнение")
	}
	if s.WeightKG < 0 || s.WeightKG > 600 {
		return fmt.Errorf("вес вне диапазона 0-600 кг: %v", s.WeightKG)
	}
	if s.Reps > 100 {
		return fmt.Errorf("повторы вне диапазона 1-100: %d", s.Reps)
	}
	return nil
}

// FormatSet форматирует подход для подтверждения
func FormatSet(s *ParsedSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1fx%d", s.Exercise, s.WeightKG, s.Reps)
	if s.RPE > 0 {
		fmt.Fprintf(&b, " @RPE%.1f", s.RPE)
	}
	if s.Warmup {
		b.WriteString(" (разминка)")
	}
	return b.String()
}
