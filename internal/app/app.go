package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/http/active_sessions_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/http/user_stats_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/answer_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/difficulty_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/finish_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/profile_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/result_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/stats_handler"
	"github.com/IT-Nick/assessment-bot/internal/app/middleware"
	"github.com/IT-Nick/assessment-bot/internal/app/poller"
	"github.com/IT-Nick/assessment-bot/internal/app/state"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	questionsRepo "github.com/IT-Nick/assessment-bot/internal/domain/questions/repository"
	questionsService "github.com/IT-Nick/assessment-bot/internal/domain/questions/service"
	statsRepo "github.com/IT-Nick/assessment-bot/internal/domain/stats/repository"
	statsService "github.com/IT-Nick/assessment-bot/internal/domain/stats/service"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"github.com/IT-Nick/assessment-bot/internal/infra/db"
	"github.com/IT-Nick/assessment-bot/internal/infra/events"
	"github.com/IT-Nick/assessment-bot/internal/infra/timer"
	"github.com/IT-Nick/assessment-bot/internal/report"
	httpError "github.com/IT-Nick/assessment-bot/pkg/http"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"
)

// Интервал обновления сообщения с обратным отсчетом
const timerTickInterval = 5 * time.Second

type Services struct {
	questionService *questionsService.QuestionService
	statsService    *statsService.StatsService
}

type App struct {
	config *config.Config
	logger *log.Logger
	bot    *telebot.Bot
	db     *pgxpool.Pool
	stats  *sql.DB
	server *http.Server

	Services
	publisher events.Publisher
	timers    *timer.Manager
	states    *state.Store
	flow      *flow.Flow
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	app := &App{
		config: configImpl,
		logger: log.New(os.Stdout, "[bot] ", log.LstdFlags),
		states: state.NewStore(),
	}
	app.timers = timer.NewManager(timerTickInterval, app.logger)

	if err := app.initServices(context.Background()); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices(ctx context.Context) error {
	levels, err := app.config.Levels()
	if err != nil {
		return fmt.Errorf("config.Levels: %w", err)
	}

	// Источник вопросов: файлы или Postgres
	var source questionsService.Source
	switch app.config.Questions.Source {
	case config.SourcePostgres:
		pool, err := InitDatabase(ctx, app.config)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = pool
		repo := questionsRepo.NewQuestionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		source = repo
	default:
		source = questionsRepo.NewFileSource(app.config.Questions.Dir, app.logger)
	}
	app.questionService = questionsService.NewQuestionService(source, levels, app.logger)

	// Статистика
	app.stats, err = db.Open(ctx, db.Driver(app.config.Stats.Driver), app.config.Stats.DSN)
	if err != nil {
		return fmt.Errorf("failed to open stats database: %w", err)
	}
	statsRepository := statsRepo.NewStatsRepository(app.stats)
	if err := statsRepository.EnsureSchema(ctx); err != nil {
		return err
	}
	app.statsService = statsService.NewStatsService(statsRepository)

	// События о завершенных тестах
	if app.config.Events.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(app.config.Events.AMQPURL, app.config.Events.Exchange, app.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		app.publisher = publisher
	} else {
		app.publisher = events.NewNopPublisher(app.logger)
	}

	specs := make([]string, 0, len(app.config.Specializations))
	for _, s := range app.config.Specializations {
		specs = append(specs, s.Key)
	}

	app.flow = flow.New(flow.Deps{
		Store:           app.states,
		Loader:          app.questionService,
		Stats:           app.statsService,
		Timers:          app.timers,
		Publisher:       app.publisher,
		Certificates:    report.NewGenerator(app.config.Certificate.FontDir),
		Levels:          levels,
		Specializations: specs,
		Logger:          app.logger,
	})
	return nil
}

// ListenAndServeTelegram запускает сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	p, err := poller.NewPoller(app.config)
	if err != nil {
		return fmt.Errorf("poller.NewPoller: %w", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: p,
		OnError: func(err error, c telebot.Context) {
			app.logger.Printf("Handler error: %v", err)
		},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bot.Use(middleware.Recover(func(err error, c telebot.Context) {
		app.logger.Printf("Recovered from panic: %v", err)
	}))
	if app.config.TelegramBot.Debug {
		app.bot.Use(middleware.Logger(app.logger))
		app.bot.Use(middleware.DebugUserActions(app.states, app.logger))
	}

	app.bootstrapHandlersTelegram()

	app.logger.Printf("Starting bot in %s mode", app.config.TelegramBot.Mode)
	go app.bot.Start()

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	startHandler := start_handler.NewStartHandler(app.flow, app.config)
	profileHandler := profile_handler.NewProfileHandler(app.flow, app.config, app.logger)
	finishHandler := finish_handler.NewFinishHandler(app.bot, app.flow, app.config, app.logger)
	difficultyHandler := difficulty_handler.NewDifficultyHandler(app.bot, app.flow, finishHandler.Timeout, app.logger)
	answerHandler := answer_handler.NewAnswerHandler(app.flow, finishHandler)
	resultHandler := result_handler.NewResultHandler(app.bot, app.flow, app.config, app.logger)
	statsHandler := stats_handler.NewStatsHandler(app.flow, app.config, app.logger)

	app.bot.Handle("/start", startHandler.GetHandlerFunc())
	app.bot.Handle("/help", startHandler.GetHelpHandlerFunc())
	app.bot.Handle("/stats", statsHandler.GetHandlerFunc())

	app.bot.Handle(&telebot.InlineButton{Unique: model.MainMenuKey}, startHandler.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.HelpKey}, startHandler.GetHelpHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.MyStatsKey}, statsHandler.GetHandlerFunc())

	// Анкета и выбор уровня
	app.bot.Handle(&telebot.InlineButton{Unique: model.SpecKey}, profileHandler.GetSpecHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.RepeatKey}, profileHandler.GetRepeatHandlerFunc())
	app.bot.Handle(telebot.OnText, profileHandler.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.DifficultyKey}, difficultyHandler.GetHandlerFunc())

	// Прохождение теста
	app.bot.Handle(&telebot.InlineButton{Unique: model.AnswerKey}, answerHandler.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.NextKey}, answerHandler.GetNextHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.PrevKey}, answerHandler.GetPrevHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.FinishKey}, finishHandler.GetHandlerFunc())

	// Результат
	app.bot.Handle(&telebot.InlineButton{Unique: model.ShowAnswersKey}, resultHandler.GetShowAnswersHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.CertificateKey}, resultHandler.GetCertificateHandlerFunc())

	app.bot.Handle(&telebot.InlineButton{Unique: model.NoopKey}, func(c telebot.Context) error {
		return c.Respond()
	})
}

// Router собирает HTTP маршруты
func (app *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID, chiMiddleware.RealIP, chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpError.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/users/{telegramID}/stats", user_stats_handler.NewUserStatsHandler(app.statsService))
	r.Method(http.MethodGet, "/sessions/active", active_sessions_handler.NewActiveSessionsHandler(app.states, app.timers))
	return r
}

// ListenAndServeHTTP запускает HTTP сервер
func (app *App) ListenAndServeHTTP() error {
	app.server = &http.Server{
		Addr:              app.config.HTTPAddr(),
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.logger.Printf("HTTP server listening on %s", app.server.Addr)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe запускает оба сервера (Telegram и HTTP)
func (app *App) ListenAndServe() error {
	// Запускаем Telegram сервер
	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	// Запускаем HTTP сервер
	if err := app.ListenAndServeHTTP(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown останавливает серверы и освобождает ресурсы
func (app *App) Shutdown(ctx context.Context) error {
	var err error
	if app.server != nil {
		err = app.server.Shutdown(ctx)
	}
	if app.bot != nil {
		app.bot.Stop()
	}
	app.Close()
	return err
}

// Close закрывает соединения с базами и брокером
func (app *App) Close() {
	if app.publisher != nil {
		app.publisher.Close()
	}
	if app.stats != nil {
		_ = app.stats.Close()
	}
	if app.db != nil {
		app.db.Close()
	}
}
