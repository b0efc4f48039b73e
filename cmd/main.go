package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbot/clients/ai"
	"gymbot/internal/bot"
	"gymbot/internal/config"
	"gymbot/internal/exercisedb"
	"gymbot/internal/i18n"
	"gymbot/internal/logging"
	"gymbot/internal/repository"
	"gymbot/internal/server"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	logging.Setup(cfg.LogLevel)

	if err := i18n.Load(cfg.LocalesDir); err != nil {
		log.Fatalf("Ошибка загрузки локализации: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("База недоступна: %v", err)
	}
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Ошибка инициализации схемы: %v", err)
	}
	repo := repository.New(db)

	catalog, err := exercisedb.LoadCatalog(cfg.ExerciseDataPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки каталога упражнений: %v", err)
	}
	log.Infof("Каталог упражнений: %d записей", catalog.Len())

	aiClient := ai.NewClient(cfg.OpenAIAPIKey)
	if cfg.OpenAIModel != "" {
		aiClient.SetModel(cfg.OpenAIModel)
	}
	if cfg.OpenAIBaseURL != "" {
		aiClient.SetBaseURL(cfg.OpenAIBaseURL)
	}
	scheduler := ai.NewScheduler(aiClient, catalog)

	// HTTP API для мини-приложения
	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(repo.User, repo.Plan, repo.Session, scheduler, catalog),
	}
	go func() {
		log.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Ошибка HTTP-сервера: %v", err)
		}
	}()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Ошибка создания Telegram API: %v", err)
	}

	tgBot := bot.New(api, repo, scheduler, cfg)

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if err := tgBot.Start(); err != nil {
			log.Errorf("Ошибка запуска бота: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Infof("Получен сигнал %v, останавливаемся", sig)
	case <-botDone:
		log.Error("Цикл бота завершился сам, останавливаемся")
	}

	tgBot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Errorf("Ошибка остановки HTTP-сервера: %v", err)
	}

	<-botDone
	log.Info("Остановлено")
}
