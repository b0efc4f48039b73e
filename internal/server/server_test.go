package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymbot/clients/ai"
	"gymbot/internal/exercisedb"
	"gymbot/internal/models"
)

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) GetByTgID(tgID int64) (*models.User, error) {
	if s.user != nil && s.user.TgID == tgID {
		return s.user, nil
	}
	return nil, nil
}

type stubPlans struct {
	plan  *models.WorkoutPlan
	token string
	saved *models.WorkoutPlan
}

func (s *stubPlans) Get(userID int64) (*models.WorkoutPlan, error) { return s.plan, nil }

func (s *stubPlans) Upsert(userID int64, plan *models.WorkoutPlan) error {
	s.saved = plan
	return nil
}

func (s *stubPlans) EnsureShareToken(userID int64) (string, error) {
	if s.plan == nil {
		return "", fmt.Errorf("no plan")
	}
	return s.token, nil
}

func (s *stubPlans) GetByShareToken(token string) (*models.WorkoutPlan, error) {
	if s.plan != nil && token == s.token {
		return s.plan, nil
	}
	return nil, nil
}

type stubSets struct {
	logged []models.SetRow
}

func (s *stubSets) LogSet(userID int64, title string, set models.SetRow) (int64, int64, error) {
	s.logged = append(s.logged, set)
	return 1, int64(len(s.logged)), nil
}

type stubGenerator struct {
	plan *models.WorkoutPlan
	err  error
}

func (s *stubGenerator) GenerateSchedule(text, tz string, existing *models.WorkoutPlan) (*models.WorkoutPlan, error) {
	return s.plan, s.err
}

func testCatalog() *exercisedb.Catalog {
	return exercisedb.NewCatalog([]exercisedb.ExerciseRecord{
		{ExerciseID: "0001", Name: "push up", BodyParts: []string{"chest"}},
		{ExerciseID: "0002", Name: "barbell bench press", BodyParts: []string{"chest"}},
		{ExerciseID: "0003", Name: "barbell full squat", BodyParts: []string{"upper legs"}},
	})
}

func testPlan() *models.WorkoutPlan {
	return &models.WorkoutPlan{
		ProgramName: "test program",
		Weeks:       4,
		DaysPerWeek: 1,
		Days: []models.PlanDay{
			{Weekday: "Mon", Time: "19:00", Focus: "full body", Exercises: []models.PlanExercise{
				{Name: "push up", Sets: 3, Reps: "8-12", ExerciseDBID: "0001"},
			}},
		},
	}
}

func newTestServer(users UserStore, plans PlanStore, sets SetStore, gen PlanGenerator) *Server {
	return New(users, plans, sets, gen, testCatalog())
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCurrentPlan(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: 7, TgID: 100}}
	plans := &stubPlans{plan: testPlan()}
	srv := newTestServer(users, plans, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodGet, "/api/plan/current?tg_id=100", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got models.WorkoutPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ProgramName != "test program" {
		t.Errorf("program name = %q", got.ProgramName)
	}
}

func TestCurrentPlanUnknownUser(t *testing.T) {
	srv := newTestServer(&stubUsers{}, &stubPlans{}, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodGet, "/api/plan/current?tg_id=555", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCurrentPlanMissingTgID(t *testing.T) {
	srv := newTestServer(&stubUsers{}, &stubPlans{}, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodGet, "/api/plan/current", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestScheduleGeneratesAndSaves(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: 7, TgID: 100, Timezone: "UTC"}}
	plans := &stubPlans{}
	gen := &stubGenerator{plan: testPlan()}
	srv := newTestServer(users, plans, &stubSets{}, gen)

	rec := doRequest(t, srv, http.MethodPost, "/api/schedule",
		map[string]interface{}{"tg_id": 100, "text": "3 days a week"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if plans.saved == nil || plans.saved.ProgramName != "test program" {
		t.Error("plan was not saved")
	}
}

func TestScheduleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no api key", ai.ErrNoAPIKey, http.StatusServiceUnavailable},
		{"transport", fmt.Errorf("call: %w", ai.ErrTransport), http.StatusBadGateway},
		{"malformed", fmt.Errorf("parse: %w", ai.ErrMalformedResponse), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUsers{user: &models.User{ID: 7, TgID: 100}}
			srv := newTestServer(users, &stubPlans{}, &stubSets{}, &stubGenerator{err: tt.err})

			rec := doRequest(t, srv, http.MethodPost, "/api/schedule",
				map[string]interface{}{"tg_id": 100, "text": "anything"})
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestLogSet(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: 7, TgID: 100}}
	sets := &stubSets{}
	srv := newTestServer(users, &stubPlans{}, sets, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodPost, "/api/workout/log", map[string]interface{}{
		"tg_id": 100, "exercise": "bench", "weight_kg": 100.0, "reps": 5, "rpe": 8.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(sets.logged) != 1 {
		t.Fatalf("logged %d sets, want 1", len(sets.logged))
	}
	if sets.logged[0].WeightKg != 100 || sets.logged[0].Reps != 5 || sets.logged[0].RPE != 8 {
		t.Errorf("logged set = %+v", sets.logged[0])
	}
}

func TestLogSetRejectsGarbage(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: 7, TgID: 100}}
	srv := newTestServer(users, &stubPlans{}, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodPost, "/api/workout/log", map[string]interface{}{
		"tg_id": 100, "exercise": "bench", "weight_kg": 900.0, "reps": 5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExerciseSearch(t *testing.T) {
	srv := newTestServer(&stubUsers{}, &stubPlans{}, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodGet, "/api/exercises/search?q=bench", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []exercisedb.ExerciseRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ExerciseID != "0002" {
		t.Errorf("search result = %+v", got)
	}
}

func TestExerciseByID(t *testing.T) {
	srv := newTestServer(&stubUsers{}, &stubPlans{}, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodGet, "/api/exercises/0003", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/exercises/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestShareRoundTrip(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: 7, TgID: 100}}
	plans := &stubPlans{plan: testPlan(), token: "abc-123"}
	srv := newTestServer(users, plans, &stubSets{}, &stubGenerator{})

	rec := doRequest(t, srv, http.MethodPost, "/api/share", map[string]interface{}{"tg_id": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("share status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/share/"+resp["token"], nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shared plan status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/share/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing token status = %d, want 404", rec.Code)
	}
}
