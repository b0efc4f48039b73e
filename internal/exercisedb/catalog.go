package exercisedb

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ExerciseRecord запись каталога упражнений. Каталог загружается один раз
// при старте процесса и дальше никогда не изменяется.
type ExerciseRecord struct {
	ExerciseID   string   `json:"exerciseId"`
	Name         string   `json:"name"`
	BodyParts    []string `json:"bodyParts"`
	Equipments   []string `json:"equipments"`
	Instructions []string `json:"instructions"`
}

// Catalog каталог упражнений с индексами для поиска по имени
type Catalog struct {
	records []ExerciseRecord
	byID    map[string]*ExerciseRecord
}

// NewCatalog создаёт каталог из готового списка записей
func NewCatalog(records []ExerciseRecord) *Catalog {
	c := &Catalog{
		records: records,
		byID:    make(map[string]*ExerciseRecord, len(records)),
	}
	for i := range c.records {
		c.byID[c.records[i].ExerciseID] = &c.records[i]
	}
	return c
}

// LoadCatalog загружает каталог из JSON файла с набором упражнений
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога упражнений %s: %w", path, err)
	}

	var records []ExerciseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ошибка парсинга каталога упражнений %s: %w", path, err)
	}

	log.Printf("Загружен каталог упражнений: %d записей", len(records))
	return NewCatalog(records), nil
}

// ByID возвращает запись каталога по ID
func (c *Catalog) ByID(id string) (*ExerciseRecord, bool) {
	rec, ok := c.byID[id]
	return rec, ok
}

// Len возвращает количество записей в каталоге
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records возвращает все записи каталога
func (c *Catalog) Records() []ExerciseRecord {
	return c.records
}

// Search возвращает записи, имя которых содержит нормализованный запрос.
// Используется HTTP API для поиска по каталогу.
func (c *Catalog) Search(query string, limit int) []ExerciseRecord {
	norm := NormalizeName(query)
	if norm == "" || limit <= 0 {
		return nil
	}

	var found []ExerciseRecord
	for _, rec := range c.records {
		if containsNormalized(rec.Name, norm) {
			found = append(found, rec)
			if len(found) >= limit {
				break
			}
		}
	}
	return found
}

func containsNormalized(name, normQuery string) bool {
	return strings.Contains(NormalizeName(name), normQuery)
}
