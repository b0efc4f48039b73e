package ai

import (
	"fmt"
	"math"
	"strings"

	"gymbot/internal/models"

	log "github.com/sirupsen/logrus"
)

const constraintsSystemPrompt = `You are a fitness scheduling assistant. ` +
	`Extract workout constraints from the user's request and return ONLY a JSON object with ALL of these keys ` +
	`(use the placeholder defaults for anything the user did not specify, never omit a key):
{
  "days": [],                 // weekday tokens from Mon,Tue,Wed,Thu,Fri,Sat,Sun the user explicitly asked for
  "days_per_week": 0,         // integer 0-7, 0 if unknown
  "duration_minutes": 30,     // one of 30, 45, 60
  "weeks": 1,                 // integer 1-12
  "time": "",                 // "HH:MM" 24h or "" if unknown
  "program_split": "custom",  // e.g. full_body, upper_lower, push_pull_legs, custom
  "per_day_focus": {},        // optional mapping weekday -> focus
  "equipment": "",            // "" if unknown
  "language": ""              // user's language code, "" if unknown
}`

// rawConstraints промежуточная форма ответа модели с нестрогими типами чисел
type rawConstraints struct {
	Days            []string          `json:"days"`
	DaysPerWeek     float64           `json:"days_per_week"`
	DurationMinutes float64           `json:"duration_minutes"`
	Weeks           float64           `json:"weeks"`
	Time            string            `json:"time"`
	ProgramSplit    string            `json:"program_split"`
	PerDayFocus     map[string]string `json:"per_day_focus"`
	Equipment       string            `json:"equipment"`
	Language        string            `json:"language"`
}

// ExtractConstraints извлекает структурированные ограничения из свободного текста запроса.
// Возвращает ошибку, если ключ API отсутствует, HTTP вызов не удался
// или в ответе нет восстановимого JSON. Ретраев на этом уровне нет.
func (s *Scheduler) ExtractConstraints(text string) (*models.Constraints, error) {
	response, err := s.client.Chat([]Message{
		{Role: "system", Content: constraintsSystemPrompt},
		{Role: "user", Content: text},
	}, 0, true)
	if err != nil {
		return nil, fmt.Errorf("извлечение ограничений: %w", err)
	}

	var raw rawConstraints
	if err := UnmarshalResponse(response, &raw); err != nil {
		log.Printf("Ответ модели без восстановимого JSON: %s", truncate(response, 200))
		return nil, fmt.Errorf("извлечение ограничений: %w", err)
	}

	cons := SanitizeConstraints(constraintsFromRaw(raw))
	return &cons, nil
}

// constraintsFromRaw переводит нестрогие числа модели в целочисленные поля.
// Нецелые значения трактуются как неизвестные.
func constraintsFromRaw(raw rawConstraints) models.Constraints {
	return models.Constraints{
		Days:            raw.Days,
		DaysPerWeek:     intOrZero(raw.DaysPerWeek),
		DurationMinutes: intOrZero(raw.DurationMinutes),
		Weeks:           intOrZero(raw.Weeks),
		Time:            raw.Time,
		ProgramSplit:    raw.ProgramSplit,
		PerDayFocus:     raw.PerDayFocus,
		Equipment:       raw.Equipment,
		Language:        raw.Language,
	}
}

func intOrZero(f float64) int {
	if f != math.Trunc(f) {
		return 0
	}
	return int(f)
}

// SanitizeConstraints приводит ограничения к гарантированно валидному виду.
// Идемпотентна: повторное применение не меняет результат.
func SanitizeConstraints(c models.Constraints) models.Constraints {
	out := c

	// Длительность только из разрешённого набора
	valid := false
	for _, d := range models.AllowedDurations {
		if c.DurationMinutes == d {
			valid = true
			break
		}
	}
	if !valid {
		out.DurationMinutes = models.DefaultDuration
	}

	// Дни в неделю в пределах [0, 7]
	if out.DaysPerWeek < 0 {
		out.DaysPerWeek = 0
	}
	if out.DaysPerWeek > 7 {
		out.DaysPerWeek = 7
	}

	// Дни недели: только валидные токены, без дубликатов, порядок сохраняется
	out.Days = filterWeekdays(c.Days)

	// Количество недель в пределах [1, 12]
	if out.Weeks < 1 {
		out.Weeks = 1
	}
	if out.Weeks > 12 {
		out.Weeks = 12
	}

	// Время строго "HH:MM", иначе неизвестно
	if !IsValidTime(out.Time) {
		out.Time = ""
	}

	if strings.TrimSpace(out.ProgramSplit) == "" {
		out.ProgramSplit = "custom"
	}

	if len(out.PerDayFocus) == 0 {
		out.PerDayFocus = map[string]string{}
	}

	return out
}

// filterWeekdays оставляет только валидные токены дней недели без дубликатов
func filterWeekdays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if !models.IsValidWeekday(d) {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// IsValidTime проверяет строку времени формата "HH:MM" (ровно 5 символов)
func IsValidTime(t string) bool {
	if len(t) != 5 || t[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return false
		}
	}
	hh := int(t[0]-'0')*10 + int(t[1]-'0')
	mm := int(t[3]-'0')*10 + int(t[4]-'0')
	return hh < 24 && mm < 60
}

// presetDays таблица дней по умолчанию для каждого количества тренировок в неделю
var presetDays = map[int][]string{
	1: {"Mon"},
	2: {"Mon", "Thu"},
	3: {"Mon", "Wed", "Fri"},
	4: {"Mon", "Tue", "Thu", "Fri"},
	5: {"Mon", "Tue", "Wed", "Thu", "Fri"},
	6: {"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	7: {"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
}

// RequestedDays возвращает итоговый набор дней недели для плана:
// явно выбранные пользователем дни либо пресет по количеству тренировок в неделю
func RequestedDays(c models.Constraints) []string {
	if len(c.Days) > 0 {
		return filterWeekdays(c.Days)
	}
	if days, ok := presetDays[c.DaysPerWeek]; ok {
		return append([]string(nil), days...)
	}
	return append([]string(nil), presetDays[3]...)
}
