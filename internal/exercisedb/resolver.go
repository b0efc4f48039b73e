package exercisedb

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Метод, которым имя упражнения было сопоставлено с каталогом
type MatchMethod string

const (
	MatchExact MatchMethod = "exact"
	MatchAlias MatchMethod = "alias"
	MatchFuzzy MatchMethod = "fuzzy"
	MatchNone  MatchMethod = "none"
)

// Пороги похожести для нечёткого поиска
const (
	fuzzyAcceptRatio = 0.84 // минимальная похожесть для принятия кандидата
	fuzzyEarlyRatio  = 0.93 // достаточно похож, дальше можно не искать
	fuzzyScanCap     = 5000 // предел полного перебора при отсутствии общих токенов
)

// aliasTable сопоставляет разговорные названия каноническим именам каталога.
// Ключи и значения хранятся в нормализованном виде.
var aliasTable = map[string]string{
	"bench press":         "dumbbell bench press",
	"bench":               "dumbbell bench press",
	"squat":               "barbell full squat",
	"squats":              "barbell full squat",
	"deadlift":            "barbell deadlift",
	"ohp":                 "barbell standing military press",
	"overhead press":      "barbell standing military press",
	"military press":      "barbell standing military press",
	"shoulder press":      "dumbbell shoulder press",
	"row":                 "barbell bent over row",
	"rows":                "barbell bent over row",
	"bent over row":       "barbell bent over row",
	"lat pulldown":        "cable lat pulldown",
	"pulldown":            "cable lat pulldown",
	"pullup":              "pull up",
	"pullups":             "pull up",
	"chinup":              "chin up",
	"chinups":             "chin up",
	"pushup":              "push up",
	"pushups":             "push up",
	"dips":                "triceps dip",
	"dip":                 "triceps dip",
	"rdl":                 "barbell romanian deadlift",
	"romanian deadlift":   "barbell romanian deadlift",
	"hip thrust":          "barbell hip thrust",
	"lunge":               "dumbbell lunge",
	"lunges":              "dumbbell lunge",
	"split squat":         "dumbbell bulgarian split squat",
	"leg press":           "sled 45 leg press",
	"leg curl":            "lever lying leg curl",
	"leg extension":       "lever leg extension",
	"calf raise":          "standing calf raise",
	"bicep curl":          "dumbbell biceps curl",
	"biceps curl":         "dumbbell biceps curl",
	"curl":                "dumbbell biceps curl",
	"curls":               "dumbbell biceps curl",
	"tricep pushdown":     "cable pushdown",
	"triceps pushdown":    "cable pushdown",
	"pushdown":            "cable pushdown",
	"skull crusher":       "barbell lying triceps extension",
	"skull crushers":      "barbell lying triceps extension",
	"lateral raise":       "dumbbell lateral raise",
	"side raise":          "dumbbell lateral raise",
	"face pull":           "cable face pull",
	"fly":                 "dumbbell fly",
	"flyes":               "dumbbell fly",
	"chest fly":           "dumbbell fly",
	"front squat":         "barbell front squat",
	"sumo deadlift":       "barbell sumo deadlift",
	"good morning":        "barbell good morning",
	"shrug":               "barbell shrug",
	"shrugs":              "barbell shrug",
	"kettlebell swing":    "kettlebell swing",
	"swing":               "kettlebell swing",
	"ab wheel":            "wheel rollout",
	"ab rollout":          "wheel rollout",
	"situp":               "sit up",
	"situps":              "sit up",
	"crunches":            "crunch",
	"leg raise":           "hanging leg raise",
	"leg raises":          "hanging leg raise",
	"step up":             "dumbbell step up",
	"step ups":            "dumbbell step up",
	"goblet squat":        "dumbbell goblet squat",
	"arnold press":        "dumbbell arnold press",
	"incline bench":       "barbell incline bench press",
	"incline bench press": "barbell incline bench press",
	"close grip bench":    "barbell close grip bench press",
	"upright row":         "barbell upright row",
	"reverse fly":         "dumbbell reverse fly",
	"rear delt fly":       "dumbbell reverse fly",
	"hammer curl":         "dumbbell hammer curl",
	"preacher curl":       "barbell preacher curl",
	"cable row":           "cable seated row",
	"seated row":          "cable seated row",
	"running":             "run",
	"treadmill":           "run",
	"cycling":             "stationary bike ride",
	"bike":                "stationary bike ride",
	"rowing machine":      "rowing machine row",
	"jump rope":           "jump rope skip",
	"plank hold":          "plank",
}

// Resolver сопоставляет свободные названия упражнений с записями каталога.
// Индексы строятся лениво один раз и безопасны для конкурентного чтения.
type Resolver struct {
	catalog *Catalog

	once       sync.Once
	byNormName map[string]string // нормализованное имя -> exerciseId
	normNames  []string          // все нормализованные имена в стабильном порядке
	tokenIndex map[string][]int  // токен -> индексы в normNames
}

// NewResolver создаёт resolver поверх каталога
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve находит запись каталога по свободному названию упражнения.
// Возвращает ID записи (пустая строка при неудаче), каноническое имя
// и метод, которым получено совпадение.
func (r *Resolver) Resolve(name string) (id string, matchedName string, method MatchMethod) {
	r.once.Do(r.buildIndex)

	norm := NormalizeName(name)
	if norm == "" {
		return "", "", MatchNone
	}

	// 1. Точное совпадение по нормализованному имени
	if id, ok := r.byNormName[norm]; ok {
		rec, _ := r.catalog.ByID(id)
		return id, rec.Name, MatchExact
	}

	// 2. Таблица синонимов, затем повторная точная проверка
	query := norm
	if canonical, ok := aliasTable[norm]; ok {
		query = canonical
		if id, ok := r.byNormName[query]; ok {
			rec, _ := r.catalog.ByID(id)
			return id, rec.Name, MatchAlias
		}
	}

	// 3. Нечёткий поиск по кандидатам с общими токенами
	if idx, ratio := r.fuzzyBest(query); ratio >= fuzzyAcceptRatio {
		bestNorm := r.normNames[idx]
		id := r.byNormName[bestNorm]
		rec, _ := r.catalog.ByID(id)
		return id, rec.Name, MatchFuzzy
	}

	return "", "", MatchNone
}

// buildIndex строит таблицу нормализованных имён и инвертированный индекс по токенам
func (r *Resolver) buildIndex() {
	records := r.catalog.Records()
	r.byNormName = make(map[string]string, len(records))
	r.normNames = make([]string, 0, len(records))
	r.tokenIndex = make(map[string][]int)

	for _, rec := range records {
		norm := NormalizeName(rec.Name)
		if norm == "" {
			continue
		}
		if _, exists := r.byNormName[norm]; exists {
			continue
		}
		r.byNormName[norm] = rec.ExerciseID
		idx := len(r.normNames)
		r.normNames = append(r.normNames, norm)
		for _, tok := range strings.Fields(norm) {
			r.tokenIndex[tok] = append(r.tokenIndex[tok], idx)
		}
	}
}

// fuzzyBest ищет самое похожее имя каталога для нормализованного запроса.
// Кандидаты сужаются через инвертированный индекс; при отсутствии общих
// токенов перебирается весь каталог, но не более fuzzyScanCap имён.
func (r *Resolver) fuzzyBest(query string) (bestIdx int, bestRatio float64) {
	bestIdx = -1

	candidates := r.gatherCandidates(query)
	for _, idx := range candidates {
		ratio := similarityRatio(query, r.normNames[idx])
		if ratio > bestRatio || (ratio == bestRatio && (bestIdx == -1 || idx < bestIdx)) {
			bestRatio = ratio
			bestIdx = idx
			if ratio >= fuzzyEarlyRatio {
				return bestIdx, bestRatio
			}
		}
	}
	return bestIdx, bestRatio
}

// gatherCandidates возвращает отсортированный набор индексов имён-кандидатов
func (r *Resolver) gatherCandidates(query string) []int {
	seen := make(map[int]struct{})
	for _, tok := range strings.Fields(query) {
		for _, idx := range r.tokenIndex[tok] {
			seen[idx] = struct{}{}
		}
	}

	if len(seen) == 0 {
		// Ни одного общего токена: деградируем до ограниченного полного перебора
		n := len(r.normNames)
		if n > fuzzyScanCap {
			n = fuzzyScanCap
		}
		candidates := make([]int, n)
		for i := 0; i < n; i++ {
			candidates[i] = i
		}
		return candidates
	}

	candidates := make([]int, 0, len(seen))
	for idx := range seen {
		candidates = append(candidates, idx)
	}
	sort.Ints(candidates)
	return candidates
}

// NormalizeName приводит название упражнения к каноничному виду для сравнения:
// ASCII, нижний регистр, без знаков препинания, одиночные пробелы. Скобки
// заменяются пробелами, их содержимое сохраняется как токены.
func NormalizeName(name string) string {
	s := foldToASCII(name)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "(", " ")
	s = strings.ReplaceAll(s, ")", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "/", " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == ' ' {
			b.WriteRune(ch)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// foldToASCII заменяет распространённые латинские буквы с диакритикой на ASCII аналоги
func foldToASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch < 128 {
			b.WriteRune(ch)
			continue
		}
		if folded, ok := asciiFold[ch]; ok {
			b.WriteString(folded)
			continue
		}
		// Прочие не-ASCII буквы отбрасываются, разделители заменяются пробелом
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

var asciiFold = map[rune]string{
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c", 'ß': "ss",
	'Á': "a", 'À': "a", 'Â': "a", 'Ä': "a", 'Ã': "a", 'Å': "a",
	'É': "e", 'È': "e", 'Ê': "e", 'Ë': "e",
	'Í': "i", 'Ì': "i", 'Î': "i", 'Ï': "i",
	'Ó': "o", 'Ò': "o", 'Ô': "o", 'Ö': "o", 'Õ': "o",
	'Ú': "u", 'Ù': "u", 'Û': "u", 'Ü': "u",
	'Ñ': "n", 'Ç': "c",
}

// similarityRatio возвращает похожесть двух строк от 0 до 1
// на основе расстояния Левенштейна
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// levenshtein считает расстояние редактирования двумя строками DP
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
