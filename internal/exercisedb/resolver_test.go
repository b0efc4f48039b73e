package exercisedb

import "testing"

func testCatalog() *Catalog {
	return NewCatalog([]ExerciseRecord{
		{ExerciseID: "0001", Name: "push up", BodyParts: []string{"chest"}, Equipments: []string{"body weight"}},
		{ExerciseID: "0002", Name: "pull up", BodyParts: []string{"back"}, Equipments: []string{"body weight"}},
		{ExerciseID: "0005", Name: "barbell bench press", BodyParts: []string{"chest"}, Equipments: []string{"barbell"}},
		{ExerciseID: "0006", Name: "dumbbell bench press", BodyParts: []string{"chest"}, Equipments: []string{"dumbbell"}},
		{ExerciseID: "0012", Name: "barbell full squat", BodyParts: []string{"upper legs"}, Equipments: []string{"barbell"}},
		{ExerciseID: "0015", Name: "sled 45° leg press", BodyParts: []string{"upper legs"}, Equipments: []string{"sled machine"}},
		{ExerciseID: "0038", Name: "barbell push press", BodyParts: []string{"shoulders"}, Equipments: []string{"barbell"}},
		{ExerciseID: "0045", Name: "dumbbell biceps curl", BodyParts: []string{"upper arms"}, Equipments: []string{"dumbbell"}},
		{ExerciseID: "0031", Name: "cable lat pulldown", BodyParts: []string{"back"}, Equipments: []string{"cable"}},
	})
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hyphen and parens", "Bench-Press (Barbell)", "bench press barbell"},
		{"parens glued to word", "Press(Barbell)", "press barbell"},
		{"slash separator", "Squat/Lunge", "squat lunge"},
		{"punctuation", "  Push-Up!!  ", "push up"},
		{"collapse spaces", "cable   lat    pulldown", "cable lat pulldown"},
		{"degree sign", "Sled 45° Leg Press", "sled 45 leg press"},
		{"diacritics", "Pliê Squat", "plie squat"},
		{"empty after cleanup", "(...)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(testCatalog())

	tests := []struct {
		name       string
		input      string
		wantID     string
		wantMethod MatchMethod
	}{
		{"exact match", "dumbbell bench press", "0006", MatchExact},
		{"exact with case and hyphen", "Push-Up", "0001", MatchExact},
		{"alias bench press", "Bench Press", "0006", MatchAlias},
		{"alias pulldown", "pulldown", "0031", MatchAlias},
		{"alias squat", "Squats", "0012", MatchAlias},
		{"fuzzy typo", "dumbel bench pres", "0006", MatchFuzzy},
		{"fuzzy extra letter", "push upp", "0001", MatchFuzzy},
		{"no match", "underwater basket weaving", "", MatchNone},
		{"empty input", "   ", "", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, method := r.Resolve(tt.input)
			if id != tt.wantID || method != tt.wantMethod {
				t.Errorf("Resolve(%q) = (%q, %q), want (%q, %q)",
					tt.input, id, method, tt.wantID, tt.wantMethod)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(testCatalog())

	id1, name1, _ := r.Resolve("Bench Press")
	id2, name2, _ := r.Resolve("bench press")

	if id1 != id2 || name1 != name2 {
		t.Errorf("Resolve не детерминирован: (%q, %q) != (%q, %q)", id1, name1, id2, name2)
	}
	if id1 == "" {
		t.Error("Resolve(\"Bench Press\") должен находить запись каталога")
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("testdata/exercises.json")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("LoadCatalog() records = %d, want 5", c.Len())
	}

	rec, ok := c.ByID("0001")
	if !ok {
		t.Fatal("запись 0001 не найдена")
	}
	if rec.Name != "push up" {
		t.Errorf("ByID(0001).Name = %q, want %q", rec.Name, "push up")
	}
}

func TestCatalogSearch(t *testing.T) {
	c := testCatalog()

	found := c.Search("bench", 10)
	if len(found) != 2 {
		t.Fatalf("Search(bench) вернул %d записей, want 2", len(found))
	}

	if got := c.Search("bench", 1); len(got) != 1 {
		t.Errorf("Search с limit=1 вернул %d записей", len(got))
	}
	if got := c.Search("", 10); got != nil {
		t.Errorf("Search с пустым запросом должен возвращать nil, got %v", got)
	}
}
