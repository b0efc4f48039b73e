package bot

import (
	"errors"
	"strings"
	"time"

	"gymbot/clients/ai"
	"gymbot/internal/exercisedb"
	"gymbot/internal/i18n"
	"gymbot/internal/models"
	"gymbot/internal/progression"
	"gymbot/internal/repository"
	"gymbot/internal/training"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const (
	commandStart  = "start"
	commandPlan   = "plan"
	commandLog    = "log"
	commandToday  = "today"
	commandStats  = "stats"
	commandAsk    = "ask"
	commandSetTZ  = "settz"
	commandLang   = "lang"
	commandInvite = "invite"
)

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := b.repo.User.Upsert(message.From.ID, message.From.UserName, message.From.LanguageCode)
	if err != nil {
		log.Errorf("Ошибка сохранения пользователя %d: %v", message.From.ID, err)
		return
	}

	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case commandStart:
		b.handleStart(chatID, user, message.From.FirstName, args)
	case commandPlan:
		b.handlePlan(chatID, user, args)
	case commandLog:
		b.handleLog(chatID, user, args)
	case commandToday:
		b.handleToday(chatID, user)
	case commandStats:
		b.handleStats(chatID, user)
	case commandAsk:
		if args == "" {
			b.sendMessage(chatID, b.t("ask_usage", user.Language))
			return
		}
		b.sendMessage(chatID, b.scheduler.Ask(args))
	case commandSetTZ:
		b.handleSetTZ(chatID, user, args)
	case commandLang:
		b.handleLang(chatID, user, args)
	case commandInvite:
		b.handleInvite(chatID, user)
	default:
		b.sendMessage(chatID, b.t("unknown_command", user.Language))
	}
}

// handleMessage обрабатывает свободный текст как вопрос тренеру
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}
	b.sendMessage(message.Chat.ID, b.scheduler.Ask(text))
}

func (b *Bot) handleStart(chatID int64, user *models.User, firstName, payload string) {
	name := firstName
	if name == "" {
		name = user.Handle
	}
	b.sendMessage(chatID, b.tf("start_welcome", user.Language, name))

	if strings.HasPrefix(payload, "ref_") {
		if err := b.repo.Referral.RecordClick(user.ID, payload); err != nil {
			log.Errorf("Ошибка записи реферального перехода: %v", err)
			return
		}
		b.sendMessage(chatID, b.tf("start_referral", user.Language, repository.RewardDays))
	}
}

func (b *Bot) handlePlan(chatID int64, user *models.User, args string) {
	if args == "" {
		b.sendMessage(chatID, b.t("plan_usage", user.Language))
		return
	}

	b.sendMessage(chatID, b.t("plan_generating", user.Language))

	existing, err := b.repo.Plan.Get(user.ID)
	if err != nil {
		log.Errorf("Ошибка чтения плана пользователя %d: %v", user.ID, err)
	}

	plan, err := b.scheduler.GenerateSchedule(args, user.Timezone, existing)
	if err != nil {
		log.Errorf("Ошибка генерации плана для %d: %v", user.ID, err)
		switch {
		case errors.Is(err, ai.ErrNoAPIKey):
			b.sendMessage(chatID, b.t("plan_no_key", user.Language))
		case errors.Is(err, ai.ErrTransport):
			b.sendMessage(chatID, b.t("plan_transport_error", user.Language))
		default:
			b.sendMessage(chatID, b.t("plan_malformed", user.Language))
		}
		return
	}

	if err := b.repo.Plan.Upsert(user.ID, plan); err != nil {
		log.Errorf("Ошибка сохранения плана пользователя %d: %v", user.ID, err)
	}

	log.Infof("План для пользователя %d: %s", user.ID, ai.PlanSummary(plan))
	b.sendMessage(chatID, RenderPlan(plan, i18n.ParseLanguage(user.Language)))
	b.sendMessage(chatID, b.t("plan_saved", user.Language))
}

func (b *Bot) handleLog(chatID int64, user *models.User, args string) {
	if args == "" {
		b.sendMessage(chatID, b.t("log_usage", user.Language))
		return
	}

	set, err := training.ParseSet(args)
	if err != nil {
		b.sendMessage(chatID, b.t("log_parse_error", user.Language))
		return
	}

	// Канонизируем название по каталогу, если упражнение нашлось
	exercise := set.Exercise
	if _, matched, method := b.scheduler.Resolver().Resolve(set.Exercise); method != exercisedb.MatchNone {
		exercise = matched
	}

	prev, err := b.repo.Session.LastBestSet(user.ID, exercise)
	if err != nil {
		log.Errorf("Ошибка чтения истории подходов: %v", err)
	}

	row := models.SetRow{
		Exercise: exercise,
		WeightKg: set.WeightKG,
		Reps:     set.Reps,
		RPE:      set.RPE,
		IsWarmup: set.Warmup,
	}
	if _, _, err := b.repo.Session.LogSet(user.ID, "workout", row); err != nil {
		log.Errorf("Ошибка записи подхода: %v", err)
		return
	}

	key := "log_saved"
	if set.Warmup {
		key = "log_saved_warmup"
	}
	b.sendMessage(chatID, b.tf(key, user.Language, exercise, set.WeightKG, set.Reps))

	if !set.Warmup {
		if prev == nil || set.WeightKG > prev.WeightKg {
			b.sendMessage(chatID, b.tf("log_pr", user.Language, exercise, set.WeightKG))
		}
		next := progression.NextLoad(&set.WeightKG, set.Reps, true)
		b.sendMessage(chatID, b.tf("log_next", user.Language, next))
	}

	rewarded, err := b.repo.Referral.FulfilForInvitee(user.ID)
	if err != nil {
		log.Errorf("Ошибка начисления реферальной награды: %v", err)
	}
	if rewarded {
		b.sendMessage(chatID, b.t("referral_fulfilled", user.Language))
	}
}

func (b *Bot) handleToday(chatID int64, user *models.User) {
	plan, err := b.repo.Plan.Get(user.ID)
	if err != nil {
		log.Errorf("Ошибка чтения плана пользователя %d: %v", user.ID, err)
		return
	}
	if plan == nil {
		b.sendMessage(chatID, b.t("plan_none", user.Language))
		return
	}

	loc, err := time.LoadLocation(user.Timezone)
	if err != nil {
		loc = time.UTC
	}
	today := time.Now().In(loc).Weekday().String()[:3]

	for _, day := range plan.Days {
		if day.Weekday != today {
			continue
		}
		var sb strings.Builder
		sb.WriteString(b.tf("today_header", user.Language, day.Weekday, day.Focus))
		sb.WriteString("\n")
		sb.WriteString(renderExercises(day.Exercises))
		b.sendMessage(chatID, sb.String())
		return
	}
	b.sendMessage(chatID, b.t("today_rest", user.Language))
}

func (b *Bot) handleStats(chatID int64, user *models.User) {
	total, err := b.repo.Session.CountSets(user.ID)
	if err != nil {
		log.Errorf("Ошибка подсчёта подходов: %v", err)
		return
	}
	if total == 0 {
		b.sendMessage(chatID, b.t("stats_empty", user.Language))
		return
	}

	prs, err := b.repo.Session.TopPRs(user.ID, 10)
	if err != nil {
		log.Errorf("Ошибка чтения рекордов: %v", err)
		return
	}

	var sb strings.Builder
	sb.WriteString(b.t("stats_header", user.Language))
	sb.WriteString("\n")
	for _, pr := range prs {
		sb.WriteString(b.tf("stats_line", user.Language, pr.Exercise, pr.WeightKg))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(b.tf("stats_total", user.Language, total))
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) handleSetTZ(chatID int64, user *models.User, args string) {
	if args == "" {
		b.sendMessage(chatID, b.t("settz_usage", user.Language))
		return
	}
	if _, err := time.LoadLocation(args); err != nil {
		b.sendMessage(chatID, b.tf("settz_invalid", user.Language, args))
		return
	}
	if err := b.repo.User.SetTimezone(user.ID, args); err != nil {
		log.Errorf("Ошибка сохранения часового пояса: %v", err)
		return
	}
	b.sendMessage(chatID, b.tf("settz_saved", user.Language, args))
}

func (b *Bot) handleLang(chatID int64, user *models.User, args string) {
	if args == "" {
		b.sendMessage(chatID, b.t("lang_usage", user.Language))
		return
	}
	if !i18n.IsValidLanguage(args) {
		b.sendMessage(chatID, b.t("lang_invalid", user.Language))
		return
	}
	lang := string(i18n.ParseLanguage(args))
	if err := b.repo.User.SetLanguage(user.ID, lang); err != nil {
		log.Errorf("Ошибка сохранения языка: %v", err)
		return
	}
	b.sendMessage(chatID, b.t("lang_saved", lang))
}

func (b *Bot) handleInvite(chatID int64, user *models.User) {
	token, err := b.repo.Referral.EnsureToken(user.ID)
	if err != nil {
		log.Errorf("Ошибка создания приглашения: %v", err)
		return
	}
	link := "https://t.me/" + b.api.Self.UserName + "?start=" + token
	b.sendMessage(chatID, b.tf("invite_link", user.Language, link, repository.RewardDays))
}
