package repository

import "database/sql"

// Repository содержит все репозитории
type Repository struct {
	User     *UserRepository
	Session  *SessionRepository
	Plan     *PlanRepository
	Referral *ReferralRepository
}

// New создаёт новый экземпляр Repository
func New(db *sql.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Session:  NewSessionRepository(db),
		Plan:     NewPlanRepository(db),
		Referral: NewReferralRepository(db),
	}
}

// InitSchema создаёт таблицы, если их ещё нет
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			tg_user_id    BIGINT UNIQUE NOT NULL,
			handle        TEXT NOT NULL DEFAULT '',
			tz            TEXT NOT NULL DEFAULT 'UTC',
			units         TEXT NOT NULL DEFAULT 'kg',
			lang          TEXT NOT NULL DEFAULT 'en',
			premium_until TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS workout_sessions (
			id         BIGSERIAL PRIMARY KEY,
			user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			ended_at   TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON workout_sessions(user_id)`,
		`CREATE TABLE IF NOT EXISTS set_rows (
			id         BIGSERIAL PRIMARY KEY,
			session_id BIGINT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
			exercise   TEXT NOT NULL,
			weight_kg  DOUBLE PRECISION NOT NULL,
			reps       INTEGER NOT NULL,
			rpe        DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_warmup  BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_set_rows_session ON set_rows(session_id)`,
		`CREATE TABLE IF NOT EXISTS user_plans (
			user_id     BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			plan        JSONB NOT NULL,
			share_token TEXT UNIQUE,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS referrals (
			id              BIGSERIAL PRIMARY KEY,
			inviter_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			invitee_user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			token           TEXT UNIQUE NOT NULL,
			reward_days     INTEGER NOT NULL DEFAULT 30,
			status          TEXT NOT NULL DEFAULT 'PENDING',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			fulfilled_at    TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_invitee ON referrals(invitee_user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
