package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/database"
	_ "github.com/kvizarena/api/docs" // Swagger docs
	"github.com/kvizarena/api/internal/cache"
	adminctrl "github.com/kvizarena/api/internal/controller/admin"
	userctrl "github.com/kvizarena/api/internal/controller/user"
	"github.com/kvizarena/api/internal/middleware"
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// New assembles the full application graph. The serve command starts it and
// blocks until shutdown.
func New() *fx.App {
	return fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewLeaderboardCache,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewQuizRepository,
			repository.NewSessionRepository,
			repository.NewResultRepository,
			repository.NewAchievementRepository,
			repository.NewUserRepository,
		),

		fx.Provide(
			service.DefaultAchievementCatalog,
			service.NewGoogleTokenVerifier,
			service.NewAuthService,
			service.NewQuizService,
			service.NewResultService,
			service.NewAchievementService,
			service.NewGameService,
			service.NewAdminQuizService,
			func(
				resultRepo repository.ResultRepository,
				achievementRepo repository.AchievementRepository,
				leaderboardCache *cache.LeaderboardCache,
				cfg *config.Config,
			) service.StatsService {
				return service.NewStatsService(resultRepo, achievementRepo, leaderboardCache, cfg.Leaderboard.TopN)
			},
		),

		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewQuizController,
			userctrl.NewGameController,
			userctrl.NewStatsController,
			adminctrl.NewAdminQuizController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedAchievements),
		fx.Invoke(RegisterRoutesAndStartServer),
	)
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *userctrl.AuthController,
	quizCtrl *userctrl.QuizController,
	gameCtrl *userctrl.GameController,
	statsCtrl *userctrl.StatsController,
	adminQuizCtrl *adminctrl.AdminQuizController,
) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/google", authCtrl.GoogleLogin)
		authGroup.POST("/dev-login", authCtrl.DevLogin)
		authGroup.POST("/anonymous", authCtrl.AnonymousLogin)
		authGroup.GET("/me", middleware.RequireAuth(cfg), authCtrl.Me)

		gameGroup := api.Group("/game")
		gameGroup.GET("/quizzes", quizCtrl.ListQuizzes)
		gameGroup.POST("/start/:quiz_id", middleware.RequireAuth(cfg), gameCtrl.StartGame)
		gameGroup.POST("/answer", middleware.RequireAuth(cfg), gameCtrl.SubmitAnswer)

		api.GET("/user/my-stats", middleware.RequireAuth(cfg), statsCtrl.MyStats)
		api.GET("/leaderboard/global", statsCtrl.GlobalLeaderboard)

		adminGroup := api.Group("/admin", middleware.RequireAuth(cfg), middleware.RequireAdmin())
		adminGroup.POST("/quizzes", adminQuizCtrl.CreateQuiz)
		adminGroup.DELETE("/quizzes/:quiz_id", adminQuizCtrl.DeleteQuiz)
		adminGroup.POST("/quizzes/import", adminQuizCtrl.ImportQuiz)
		adminGroup.GET("/questions/:question_id", adminQuizCtrl.GetQuestion)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("KvizArena API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// AutoMigrateDB keeps the schema in sync with the models on startup.
func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.GameSession{},
		&model.GameResult{},
		&model.Achievement{},
		&model.UserAchievement{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedAchievements makes sure the achievement catalog rows exist.
func SeedAchievements(achievementSvc service.AchievementService) error {
	return achievementSvc.SeedCatalog()
}
