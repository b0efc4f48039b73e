// Package server предоставляет HTTP API для мини-приложения.
package server

import (
	"encoding/json"
	"net/http"

	"gymbot/internal/exercisedb"
	"gymbot/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// UserStore ищет пользователей по Telegram ID
type UserStore interface {
	GetByTgID(tgID int64) (*models.User, error)
}

// PlanStore читает и сохраняет планы тренировок
type PlanStore interface {
	Get(userID int64) (*models.WorkoutPlan, error)
	Upsert(userID int64, plan *models.WorkoutPlan) error
	EnsureShareToken(userID int64) (string, error)
	GetByShareToken(token string) (*models.WorkoutPlan, error)
}

// SetStore записывает выполненные подходы
type SetStore interface {
	LogSet(userID int64, title string, set models.SetRow) (sessionID, setID int64, err error)
}

// PlanGenerator строит план по текстовому запросу
type PlanGenerator interface {
	GenerateSchedule(text, tz string, existing *models.WorkoutPlan) (*models.WorkoutPlan, error)
}

// Server держит зависимости HTTP-обработчиков
type Server struct {
	users     UserStore
	plans     PlanStore
	sets      SetStore
	generator PlanGenerator
	catalog   *exercisedb.Catalog
	router    chi.Router
}

// New создаёт сервер со всеми маршрутами
func New(users UserStore, plans PlanStore, sets SetStore, generator PlanGenerator, catalog *exercisedb.Catalog) *Server {
	s := &Server{
		users:     users,
		plans:     plans,
		sets:      sets,
		generator: generator,
		catalog:   catalog,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP реализует http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/plan/current", s.handleCurrentPlan)
		r.Post("/schedule", s.handleSchedule)
		r.Post("/workout/log", s.handleLogSet)
		r.Get("/exercises/search", s.handleExerciseSearch)
		r.Get("/exercises/{id}", s.handleExerciseByID)
		r.Post("/share", s.handleCreateShare)
		r.Get("/share/{token}", s.handleSharedPlan)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Ошибка кодирования ответа: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
