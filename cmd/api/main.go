package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "workops/internal/adapter/db"
	httpadapter "workops/internal/adapter/http"
	"workops/internal/adapter/http/handlers"
	httpmiddleware "workops/internal/adapter/http/middleware"
	appservice "workops/internal/app/service"
	"workops/internal/config"
	"workops/internal/notify"
	"workops/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := notify.NewHub()
	go hub.Run(hubCtx)

	taskRepository := dbadapter.NewTaskRepository(db)
	taskService := appservice.NewTaskService(taskRepository, hub)

	authenticator := httpmiddleware.NewAuthenticator(
		cfg.AuthIssuer,
		cfg.AuthAudience,
		[]byte(cfg.AuthHMACSecret),
		cfg.AuthClientIDs,
	)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}

	healthHandler := handlers.NewHealthHandler(db)
	taskHandler := handlers.NewTaskHandler(taskService)
	authHandler := handlers.NewAuthHandler()
	notificationsHandler := handlers.NewNotificationsHandler(hub)
	httpadapter.RegisterRoutes(r, authenticator, healthHandler, taskHandler, authHandler, notificationsHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8085"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
