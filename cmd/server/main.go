package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/hopebridge/intake/internal/config"
	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/jobs"
	"github.com/hopebridge/intake/internal/services"
	"github.com/hopebridge/intake/internal/web"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()

	if err := db.Init(cfg.DBPath); err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	if err := services.InitUploads(cfg.UploadDir, cfg.PublicBaseURL); err != nil {
		logger.Fatal("upload store init", zap.Error(err))
	}

	jobs.Start()

	r := web.Router()

	logger.Info("intake listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
