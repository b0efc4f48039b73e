package models

import "time"

// User пользователь бота
type User struct {
	ID           int64
	TgID         int64
	Handle       string
	Timezone     string // IANA, по умолчанию "UTC"
	Units        string // "kg" или "lb"
	Language     string // код языка, например "en"
	PremiumUntil *time.Time
	CreatedAt    time.Time
}

// WorkoutSession тренировочная сессия пользователя
type WorkoutSession struct {
	ID        int64
	UserID    int64
	Title     string
	StartedAt time.Time
	EndedAt   *time.Time
}

// SetRow один выполненный подход внутри сессии
type SetRow struct {
	ID        int64
	SessionID int64
	Exercise  string
	WeightKg  float64
	Reps      int
	RPE       float64 // 0 = не указан
	IsWarmup  bool
	CreatedAt time.Time
}

// Статусы реферальной записи
const (
	ReferralPending   = "PENDING"
	ReferralFulfilled = "FULFILLED"
)

// Referral реферальная связь между пользователями
type Referral struct {
	ID            int64
	InviterUserID int64
	InviteeUserID int64 // 0, пока приглашение не использовано
	Token         string
	RewardDays    int
	Status        string
	CreatedAt     time.Time
	FulfilledAt   *time.Time
}
