package repository

import (
	"database/sql"

	"gymbot/internal/models"
)

// UserRepository работает с пользователями бота
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт репозиторий пользователей
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert создаёт пользователя или обновляет handle и язык существующего
func (r *UserRepository) Upsert(tgID int64, handle, lang string) (*models.User, error) {
	if lang == "" {
		lang = "en"
	}
	user := &models.User{}
	var premiumUntil sql.NullTime
	err := r.db.QueryRow(`
		INSERT INTO users (tg_user_id, handle, lang)
		VALUES ($1, $2, $3)
		ON CONFLICT (tg_user_id) DO UPDATE
		SET handle = EXCLUDED.handle
		RETURNING id, tg_user_id, handle, tz, units, lang, premium_until, created_at`,
		tgID, handle, lang,
	).Scan(
		&user.ID, &user.TgID, &user.Handle, &user.Timezone,
		&user.Units, &user.Language, &premiumUntil, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if premiumUntil.Valid {
		user.PremiumUntil = &premiumUntil.Time
	}
	return user, nil
}

// GetByTgID возвращает пользователя по Telegram ID
func (r *UserRepository) GetByTgID(tgID int64) (*models.User, error) {
	user := &models.User{}
	var premiumUntil sql.NullTime
	err := r.db.QueryRow(`
		SELECT id, tg_user_id, handle, tz, units, lang, premium_until, created_at
		FROM users WHERE tg_user_id = $1`, tgID,
	).Scan(
		&user.ID, &user.TgID, &user.Handle, &user.Timezone,
		&user.Units, &user.Language, &premiumUntil, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if premiumUntil.Valid {
		user.PremiumUntil = &premiumUntil.Time
	}
	return user, nil
}

// SetTimezone сохраняет таймзону пользователя
func (r *UserRepository) SetTimezone(userID int64, tz string) error {
	_, err := r.db.Exec(`UPDATE users SET tz = $1 WHERE id = $2`, tz, userID)
	return err
}

// SetLanguage сохраняет язык пользователя
func (r *UserRepository) SetLanguage(userID int64, lang string) error {
	_, err := r.db.Exec(`UPDATE users SET lang = $1 WHERE id = $2`, lang, userID)
	return err
}

// SetUnits сохраняет единицы веса пользователя
func (r *UserRepository) SetUnits(userID int64, units string) error {
	_, err := r.db.Exec(`UPDATE users SET units = $1 WHERE id = $2`, units, userID)
	return err
}

// AddPremiumDays продлевает премиум на указанное число дней.
// Отсчёт идёт от текущего premium_until, если он в будущем, иначе от сейчас.
func (r *UserRepository) AddPremiumDays(userID int64, days int) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET premium_until = GREATEST(COALESCE(premium_until, now()), now()) + ($1 || ' days')::interval
		WHERE id = $2`,
		days, userID)
	return err
}
