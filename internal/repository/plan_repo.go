package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"gymbot/internal/models"

	"github.com/google/uuid"
)

// PlanRepository хранит текущий план пользователя: одна строка на пользователя,
// каждая генерация перезаписывает предыдущую (последняя запись побеждает)
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository создаёт репозиторий планов
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Upsert сохраняет план пользователя, заменяя существующий
func (r *PlanRepository) Upsert(userID int64, plan *models.WorkoutPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("сериализация плана: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO user_plans (user_id, plan, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET plan = EXCLUDED.plan, updated_at = now()`,
		userID, data)
	return err
}

// Get возвращает текущий план пользователя или nil, если плана нет
func (r *PlanRepository) Get(userID int64) (*models.WorkoutPlan, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT plan FROM user_plans WHERE user_id = $1`, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	plan := &models.WorkoutPlan{}
	if err := json.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("разбор сохранённого плана: %w", err)
	}
	return plan, nil
}

// PlanWithUser связывает сохранённый план с данными владельца для напоминаний
type PlanWithUser struct {
	UserID   int64
	TgID     int64
	Timezone string
	Language string
	Plan     *models.WorkoutPlan
}

// AllWithUsers возвращает все сохранённые планы вместе с владельцами
func (r *PlanRepository) AllWithUsers() ([]PlanWithUser, error) {
	rows, err := r.db.Query(`
		SELECT p.user_id, u.tg_user_id, u.tz, u.lang, p.plan
		FROM user_plans p
		JOIN users u ON u.id = p.user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlanWithUser
	for rows.Next() {
		var pw PlanWithUser
		var data []byte
		if err := rows.Scan(&pw.UserID, &pw.TgID, &pw.Timezone, &pw.Language, &data); err != nil {
			return nil, err
		}
		pw.Plan = &models.WorkoutPlan{}
		if err := json.Unmarshal(data, pw.Plan); err != nil {
			return nil, fmt.Errorf("разбор плана пользователя %d: %w", pw.UserID, err)
		}
		out = append(out, pw)
	}
	return out, rows.Err()
}

// EnsureShareToken возвращает токен для публичной ссылки на план,
// создавая его при первом обращении
func (r *PlanRepository) EnsureShareToken(userID int64) (string, error) {
	var token sql.NullString
	err := r.db.QueryRow(`SELECT share_token FROM user_plans WHERE user_id = $1`, userID).Scan(&token)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("у пользователя %d нет плана", userID)
	}
	if err != nil {
		return "", err
	}
	if token.Valid && token.String != "" {
		return token.String, nil
	}

	fresh := uuid.NewString()
	_, err = r.db.Exec(`UPDATE user_plans SET share_token = $1 WHERE user_id = $2`, fresh, userID)
	if err != nil {
		return "", err
	}
	return fresh, nil
}

// GetByShareToken возвращает план по публичному токену или nil
func (r *PlanRepository) GetByShareToken(token string) (*models.WorkoutPlan, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT plan FROM user_plans WHERE share_token = $1`, token).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	plan := &models.WorkoutPlan{}
	if err := json.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("разбор плана по токену: %w", err)
	}
	return plan, nil
}

// Delete удаляет план пользователя
func (r *PlanRepository) Delete(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM user_plans WHERE user_id = $1`, userID)
	return err
}
