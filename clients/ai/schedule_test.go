package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"gymbot/internal/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// chatBody собирает тело ответа chat completions с заданным content
func chatBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id": "chatcmpl-test",
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal chat body: %v", err)
	}
	return body
}

func TestGenerateScheduleNoAPIKeyNoHTTP(t *testing.T) {
	called := false
	client := NewClient("")
	client.SetHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("не должно вызываться")
		}),
	})
	s := testScheduler()
	s.client = client

	_, err := s.GenerateSchedule("3 day plan", "UTC", nil)

	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
	if called {
		t.Error("при отсутствии ключа HTTP вызов не должен выполняться")
	}
}

func TestGenerateScheduleTransportError(t *testing.T) {
	s := testScheduler()
	s.client.SetHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		}),
	})

	_, err := s.GenerateSchedule("3 day plan", "UTC", nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestGenerateScheduleMalformedResponse(t *testing.T) {
	s := testScheduler()
	s.client.SetHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(chatBody(t, "I cannot produce JSON today"))),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
			}, nil
		}),
	})

	_, err := s.GenerateSchedule("3 day plan", "UTC", nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateScheduleFullPipeline(t *testing.T) {
	constraintsJSON := `{
		"days": [], "days_per_week": 3, "duration_minutes": 30, "weeks": 1,
		"time": "", "program_split": "full_body", "per_day_focus": {},
		"equipment": "", "language": "en"
	}`
	planJSON := `{
		"program_name": "Starter Strength",
		"timezone": "",
		"weeks": 1,
		"days_per_week": 4,
		"days": [
			{"weekday": "Mon", "time": "19:00", "focus": "full body", "exercises": [
				{"name": "Push-up", "sets": 5, "reps": "10", "exercise_db_id": "FAKE"},
				{"name": "push up", "sets": 3, "reps": "10"},
				{"name": "Pull-up", "sets": 3, "reps": "8"},
				{"name": "Barbell Full Squat", "sets": 4, "reps": "5"},
				{"name": "Plank", "sets": 3, "reps": "45s"},
				{"name": "Dumbbell Fly", "sets": 3, "reps": "12"},
				{"name": "Chin-up", "sets": 3, "reps": "8"}
			]},
			{"weekday": "Wed", "time": "19:00", "focus": "full body", "exercises": [
				{"name": "mystery movement", "sets": 3, "reps": "10"}
			]},
			{"weekday": "Sun", "time": "19:00", "focus": "extra", "exercises": []}
		]
	}`

	calls := 0
	s := testScheduler()
	s.client.SetHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			content := constraintsJSON
			if calls > 1 {
				content = planJSON
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(chatBody(t, content))),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
			}, nil
		}),
	})

	plan, err := s.GenerateSchedule("train 3 times a week at home", "Europe/Moscow", nil)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("ожидались 2 вызова модели (ограничения + план), было %d", calls)
	}

	// Sun не входит в пресет Mon/Wed/Fri и должен быть выброшен
	for _, day := range plan.Days {
		if day.Weekday == "Sun" {
			t.Error("день Sun не был запрошен и должен быть удалён")
		}
	}
	if plan.DaysPerWeek != len(plan.Days) {
		t.Errorf("days_per_week = %d, дней %d", plan.DaysPerWeek, len(plan.Days))
	}
	if plan.Timezone != "Europe/Moscow" {
		t.Errorf("timezone = %q, want Europe/Moscow", plan.Timezone)
	}

	mon := plan.Days[0]
	if mon.Weekday != "Mon" {
		t.Fatalf("первый день = %s, want Mon", mon.Weekday)
	}
	// 30 минут: максимум 5 упражнений, ровно 3 подхода, дубликаты схлопнуты
	if len(mon.Exercises) > 5 {
		t.Errorf("в 30-минутном дне %d упражнений, максимум 5", len(mon.Exercises))
	}
	seenIDs := make(map[string]bool)
	for _, ex := range mon.Exercises {
		if ex.Sets != 3 {
			t.Errorf("упражнение %q: sets = %d, want 3", ex.Name, ex.Sets)
		}
		if ex.ValidationConfidence == models.ConfidenceOpenAIProvided {
			t.Errorf("метка openai_provided не должна переживать сверку: %q", ex.Name)
		}
		if ex.ExerciseDBID != "" {
			if ex.ExerciseDBID == "FAKE" {
				t.Errorf("ID от модели должен быть отброшен")
			}
			if seenIDs[ex.ExerciseDBID] {
				t.Errorf("дубликат ID %q в дне Mon", ex.ExerciseDBID)
			}
			seenIDs[ex.ExerciseDBID] = true
		}
	}

	// Несопоставленное упражнение остаётся с меткой unmapped
	var wed *models.PlanDay
	for i := range plan.Days {
		if plan.Days[i].Weekday == "Wed" {
			wed = &plan.Days[i]
		}
	}
	if wed == nil {
		t.Fatal("день Wed должен присутствовать")
	}
	if len(wed.Exercises) != 1 || wed.Exercises[0].ValidationConfidence != models.ConfidenceUnmapped {
		t.Errorf("mystery movement должен остаться с меткой unmapped: %+v", wed.Exercises)
	}
}

func TestTruncateProgramNameRuneSafe(t *testing.T) {
	long := strings.Repeat("тренировка ", 10)
	got := truncateProgramName(long)

	if !utf8.ValidString(got) {
		t.Fatalf("имя программы содержит невалидный UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) > maxProgramNameLen+1 {
		t.Errorf("имя программы длиннее лимита: %d рун", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("обрезанное имя должно заканчиваться символом …: %q", got)
	}

	short := "короткий запрос"
	if truncateProgramName(short) != short {
		t.Errorf("короткое имя не должно обрезаться")
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	s := strings.Repeat("я", 10)
	got := truncate(s, 5)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate вернул невалидный UTF-8: %q", got)
	}
	if got != strings.Repeat("я", 5)+"..." {
		t.Errorf("truncate = %q", got)
	}
}
