package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON вырезает JSON объект из ответа модели.
// Убирает markdown блоки ```json ... ``` и текст вокруг объекта.
func ExtractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+7:]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}

// UnmarshalResponse разбирает JSON из ответа модели в структуру v.
// Сначала пытается разобрать очищенный ответ целиком, при неудаче
// восстанавливает последний синтаксически завершённый JSON объект
// подсчётом скобок и повторяет разбор.
func UnmarshalResponse(response string, v interface{}) error {
	cleaned := ExtractJSON(response)
	if json.Unmarshal([]byte(cleaned), v) == nil {
		return nil
	}

	recovered, ok := recoverLastObject(response)
	if !ok {
		return ErrMalformedResponse
	}
	if err := json.Unmarshal([]byte(recovered), v); err != nil {
		return ErrMalformedResponse
	}
	return nil
}

// recoverLastObject находит последний сбалансированный JSON объект в тексте.
// Скобки внутри строковых литералов не учитываются.
func recoverLastObject(text string) (string, bool) {
	var (
		depth    int
		start    = -1
		inString bool
		escaped  bool
		lastObj  string
	)

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					lastObj = text[start : i+1]
				}
			}
		}
	}

	if lastObj == "" {
		return "", false
	}
	return lastObj, true
}
