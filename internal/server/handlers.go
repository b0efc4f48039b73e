package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gymbot/clients/ai"
	"gymbot/internal/models"
	"gymbot/internal/training"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userFromRequest достаёт пользователя по параметру tg_id
func (s *Server) userFromRequest(w http.ResponseWriter, r *http.Request, tgIDParam string) *models.User {
	tgID, err := strconv.ParseInt(tgIDParam, 10, 64)
	if err != nil || tgID <= 0 {
		writeError(w, http.StatusBadRequest, "tg_id required")
		return nil
	}
	user, err := s.users.GetByTgID(tgID)
	if err != nil {
		log.Errorf("Ошибка поиска пользователя %d: %v", tgID, err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return nil
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return nil
	}
	return user
}

func (s *Server) handleCurrentPlan(w http.ResponseWriter, r *http.Request) {
	user := s.userFromRequest(w, r, r.URL.Query().Get("tg_id"))
	if user == nil {
		return
	}

	plan, err := s.plans.Get(user.ID)
	if err != nil {
		log.Errorf("Ошибка чтения плана пользователя %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "no plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type scheduleRequest struct {
	TgID int64  `json:"tg_id"`
	Text string `json:"text"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}
	user := s.userFromRequest(w, r, strconv.FormatInt(req.TgID, 10))
	if user == nil {
		return
	}

	existing, err := s.plans.Get(user.ID)
	if err != nil {
		log.Errorf("Ошибка чтения плана пользователя %d: %v", user.ID, err)
	}

	plan, err := s.generator.GenerateSchedule(req.Text, user.Timezone, existing)
	if err != nil {
		log.Errorf("Ошибка генерации плана для %d: %v", user.ID, err)
		switch {
		case errors.Is(err, ai.ErrNoAPIKey):
			writeError(w, http.StatusServiceUnavailable, "plan generation not configured")
		case errors.Is(err, ai.ErrTransport):
			writeError(w, http.StatusBadGateway, "upstream unavailable")
		default:
			writeError(w, http.StatusBadGateway, "malformed model response")
		}
		return
	}

	if err := s.plans.Upsert(user.ID, plan); err != nil {
		log.Errorf("Ошибка сохранения плана пользователя %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type logSetRequest struct {
	TgID     int64   `json:"tg_id"`
	Exercise string  `json:"exercise"`
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
	RPE      float64 `json:"rpe"`
	Warmup   bool    `json:"warmup"`
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req logSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	user := s.userFromRequest(w, r, strconv.FormatInt(req.TgID, 10))
	if user == nil {
		return
	}

	// Прогоняем через тот же разбор, что и команда /log
	line := req.Exercise + " " + strconv.FormatFloat(req.WeightKg, 'f', -1, 64) + "x" + strconv.Itoa(req.Reps)
	if _, err := training.ParseSet(line); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row := models.SetRow{
		Exercise: req.Exercise,
		WeightKg: req.WeightKg,
		Reps:     req.Reps,
		RPE:      req.RPE,
		IsWarmup: req.Warmup,
	}
	sessionID, setID, err := s.sets.LogSet(user.ID, "workout", row)
	if err != nil {
		log.Errorf("Ошибка записи подхода: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"session_id": sessionID, "set_id": setID})
}

func (s *Server) handleExerciseSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q required")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, s.catalog.Search(q, limit))
}

func (s *Server) handleExerciseByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.catalog.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type shareRequest struct {
	TgID int64 `json:"tg_id"`
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	user := s.userFromRequest(w, r, strconv.FormatInt(req.TgID, 10))
	if user == nil {
		return
	}

	token, err := s.plans.EnsureShareToken(user.ID)
	if err != nil {
		log.Errorf("Ошибка создания share-токена для %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleSharedPlan(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	plan, err := s.plans.GetByShareToken(token)
	if err != nil {
		log.Errorf("Ошибка чтения плана по токену: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
