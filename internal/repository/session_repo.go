package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gymbot/internal/models"
)

// activeSessionWindow сессия считается активной, если начата не раньше этого окна назад
const activeSessionWindow = 2 * time.Hour

// SessionRepository работает с тренировочными сессиями и подходами
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository создаёт репозиторий сессий
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// LogSet записывает подход в одной транзакции, переиспользуя активную
// сессию пользователя или создавая новую с указанным заголовком
func (r *SessionRepository) LogSet(userID int64, title string, set models.SetRow) (sessionID, setID int64, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("начало транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	err = tx.QueryRow(`
		SELECT id FROM workout_sessions
		WHERE user_id = $1 AND ended_at IS NULL AND started_at > now() - $2::interval
		ORDER BY started_at DESC LIMIT 1`,
		userID, fmt.Sprintf("%d seconds", int(activeSessionWindow.Seconds())),
	).Scan(&sessionID)
	if err == sql.ErrNoRows {
		err = tx.QueryRow(`
			INSERT INTO workout_sessions (user_id, title) VALUES ($1, $2) RETURNING id`,
			userID, title,
		).Scan(&sessionID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("выбор сессии: %w", err)
	}

	err = tx.QueryRow(`
		INSERT INTO set_rows (session_id, exercise, weight_kg, reps, rpe, is_warmup)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		sessionID, set.Exercise, set.WeightKg, set.Reps, set.RPE, set.IsWarmup,
	).Scan(&setID)
	if err != nil {
		return 0, 0, fmt.Errorf("запись подхода: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("коммит: %w", err)
	}
	return sessionID, setID, nil
}

// LastBestSet возвращает лучший подход пользователя по упражнению
// (максимальный вес, при равенстве больше повторов)
func (r *SessionRepository) LastBestSet(userID int64, exercise string) (*models.SetRow, error) {
	set := &models.SetRow{}
	err := r.db.QueryRow(`
		SELECT sr.id, sr.session_id, sr.exercise, sr.weight_kg, sr.reps, sr.rpe, sr.is_warmup, sr.created_at
		FROM set_rows sr
		JOIN workout_sessions ws ON ws.id = sr.session_id
		WHERE ws.user_id = $1 AND lower(sr.exercise) = lower($2) AND NOT sr.is_warmup
		ORDER BY sr.weight_kg DESC, sr.reps DESC
		LIMIT 1`,
		userID, exercise,
	).Scan(
		&set.ID, &set.SessionID, &set.Exercise, &set.WeightKg,
		&set.Reps, &set.RPE, &set.IsWarmup, &set.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// PersonalRecord лучший результат по упражнению
type PersonalRecord struct {
	Exercise string
	WeightKg float64
}

// TopPRs возвращает лучшие веса пользователя по упражнениям
func (r *SessionRepository) TopPRs(userID int64, limit int) ([]PersonalRecord, error) {
	rows, err := r.db.Query(`
		SELECT sr.exercise, MAX(sr.weight_kg) AS best
		FROM set_rows sr
		JOIN workout_sessions ws ON ws.id = sr.session_id
		WHERE ws.user_id = $1 AND NOT sr.is_warmup
		GROUP BY sr.exercise
		ORDER BY best DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prs []PersonalRecord
	for rows.Next() {
		var pr PersonalRecord
		if err := rows.Scan(&pr.Exercise, &pr.WeightKg); err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// CountSets возвращает количество подходов пользователя
func (r *SessionRepository) CountSets(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM set_rows sr
		JOIN workout_sessions ws ON ws.id = sr.session_id
		WHERE ws.user_id = $1`,
		userID,
	).Scan(&count)
	return count, err
}

// RecentSets возвращает последние подходы пользователя
func (r *SessionRepository) RecentSets(userID int64, limit int) ([]models.SetRow, error) {
	rows, err := r.db.Query(`
		SELECT sr.id, sr.session_id, sr.exercise, sr.weight_kg, sr.reps, sr.rpe, sr.is_warmup, sr.created_at
		FROM set_rows sr
		JOIN workout_sessions ws ON ws.id = sr.session_id
		WHERE ws.user_id = $1
		ORDER BY sr.created_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []models.SetRow
	for rows.Next() {
		var set models.SetRow
		if err := rows.Scan(
			&set.ID, &set.SessionID, &set.Exercise, &set.WeightKg,
			&set.Reps, &set.RPE, &set.IsWarmup, &set.CreatedAt,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}
