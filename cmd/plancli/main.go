// plancli запускает пайплайн генерации плана из терминала, без Telegram и базы.
//
// Пример:
//
//	go run ./cmd/plancli -tz Europe/Berlin "3 days a week, 45 min, dumbbells only"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gymbot/clients/ai"
	"gymbot/internal/exercisedb"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	var (
		dataPath = flag.String("data", "data/exercises.json", "путь к каталогу упражнений")
		tz       = flag.String("tz", "UTC", "часовой пояс пользователя")
		asJSON   = flag.Bool("json", false, "вывести план как JSON")
	)
	flag.Parse()

	request := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if request == "" {
		fmt.Fprintln(os.Stderr, "использование: plancli [-data path] [-tz zone] [-json] <описание тренировок>")
		os.Exit(2)
	}

	catalog, err := exercisedb.LoadCatalog(*dataPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки каталога: %v", err)
	}

	client := ai.NewClient(os.Getenv("OPENAI_API_KEY"))
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		client.SetModel(model)
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		client.SetBaseURL(baseURL)
	}

	scheduler := ai.NewScheduler(client, catalog)
	plan, err := scheduler.GenerateSchedule(request, *tz, nil)
	if err != nil {
		log.Fatalf("Ошибка генерации плана: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			log.Fatalf("Ошибка вывода: %v", err)
		}
		return
	}

	fmt.Printf("%s\nweeks: %d, days/week: %d, tz: %s\n", plan.ProgramName, plan.Weeks, plan.DaysPerWeek, plan.Timezone)
	for _, day := range plan.Days {
		fmt.Printf("\n%s %s — %s\n", day.Weekday, day.Time, day.Focus)
		for i, ex := range day.Exercises {
			marker := ""
			if !ex.IsValidated {
				marker = " (?)"
			}
			fmt.Printf("  %d. %s — %dx%s%s\n", i+1, ex.Name, ex.Sets, ex.Reps, marker)
		}
	}
}
