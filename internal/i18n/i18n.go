package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Language представляет поддерживаемый язык
type Language string

const (
	LangEnglish Language = "en"
	LangRussian Language = "ru"
	DefaultLang Language = LangEnglish
)

// translations хранит все переводы
var translations = struct {
	sync.RWMutex
	data map[Language]map[string]string
}{data: make(map[Language]map[string]string)}

// Load загружает переводы из файлов локализации
func Load(localesDir string) error {
	translations.Lock()
	defer translations.Unlock()

	for _, lang := range []Language{LangEnglish, LangRussian} {
		filePath := filepath.Join(localesDir, string(lang)+".json")
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("чтение файла локализации %s: %w", filePath, err)
		}

		var langData map[string]string
		if err := json.Unmarshal(data, &langData); err != nil {
			return fmt.Errorf("парсинг файла локализации %s: %w", filePath, err)
		}

		translations.data[lang] = langData
		log.Infof("Загружена локализация: %s (%d ключей)", lang, len(langData))
	}

	return nil
}

// T возвращает перевод для указанного ключа и языка
func T(key string, lang Language) string {
	translations.RLock()
	defer translations.RUnlock()

	if langData, ok := translations.data[lang]; ok {
		if text, ok := langData[key]; ok {
			return text
		}
	}

	// Fallback на английский
	if lang != DefaultLang {
		if langData, ok := translations.data[DefaultLang]; ok {
			if text, ok := langData[key]; ok {
				return text
			}
		}
	}

	// Если ключ не найден, возвращаем сам ключ
	log.Warnf("Перевод не найден: key=%s, lang=%s", key, lang)
	return key
}

// Tf возвращает форматированный перевод
func Tf(key string, lang Language, args ...interface{}) string {
	template := T(key, lang)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// IsValidLanguage проверяет, является ли язык поддерживаемым
func IsValidLanguage(lang string) bool {
	switch Language(strings.ToLower(lang)) {
	case LangRussian, LangEnglish:
		return true
	default:
		return false
	}
}

// ParseLanguage преобразует строку в Language
func ParseLanguage(lang string) Language {
	switch Language(strings.ToLower(lang)) {
	case LangRussian:
		return LangRussian
	default:
		return LangEnglish
	}
}

// GetLanguageName возвращает название языка на этом языке
func GetLanguageName(lang Language) string {
	switch lang {
	case LangRussian:
		return "Русский"
	default:
		return "English"
	}
}
