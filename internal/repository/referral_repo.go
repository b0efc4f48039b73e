package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RewardDays - сколько дней премиума получает каждая сторона приглашения
const RewardDays = 30

// ReferralRepository работает с реферальными приглашениями
type ReferralRepository struct {
	db *sql.DB
}

// NewReferralRepository создаёт репозиторий рефералов
func NewReferralRepository(db *sql.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// EnsureToken возвращает реферальный токен пригласившего, создавая его при необходимости
func (r *ReferralRepository) EnsureToken(inviterUserID int64) (string, error) {
	var token string
	err := r.db.QueryRow(`
		SELECT token FROM referrals
		WHERE inviter_user_id = $1 AND invitee_user_id IS NULL AND status = 'PENDING'
		LIMIT 1`, inviterUserID,
	).Scan(&token)
	if err == nil {
		return token, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	token = "ref_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	_, err = r.db.Exec(`
		INSERT INTO referrals (inviter_user_id, token) VALUES ($1, $2)`,
		inviterUserID, token)
	if err != nil {
		return "", fmt.Errorf("создание реферального токена: %w", err)
	}
	return token, nil
}

// RecordClick привязывает приглашённого к токену. Самоприглашение игнорируется.
func (r *ReferralRepository) RecordClick(inviteeUserID int64, token string) error {
	_, err := r.db.Exec(`
		UPDATE referrals
		SET invitee_user_id = $1
		WHERE token = $2 AND status = 'PENDING'
		  AND inviter_user_id <> $1
		  AND invitee_user_id IS NULL`,
		inviteeUserID, token)
	return err
}

// FulfilForInvitee закрывает реферал после первого записанного подхода
// приглашённого и возвращает true, если награда была начислена
func (r *ReferralRepository) FulfilForInvitee(inviteeUserID int64) (bool, error) {
	var (
		id            int64
		inviterUserID int64
		rewardDays    int
	)
	err := r.db.QueryRow(`
		UPDATE referrals
		SET status = 'FULFILLED', fulfilled_at = now()
		WHERE invitee_user_id = $1 AND status = 'PENDING'
		RETURNING id, inviter_user_id, reward_days`,
		inviteeUserID,
	).Scan(&id, &inviterUserID, &rewardDays)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Премиум обоим участникам
	users := NewUserRepository(r.db)
	if err := users.AddPremiumDays(inviterUserID, rewardDays); err != nil {
		return true, err
	}
	if err := users.AddPremiumDays(inviteeUserID, rewardDays); err != nil {
		return true, err
	}
	return true, nil
}
