package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mddforum/mdd-api/config"
	"github.com/mddforum/mdd-api/middleware"
	"github.com/mddforum/mdd-api/repository"
	"github.com/mddforum/mdd-api/routes"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, utils.Logger)
	if err != nil {
		utils.Logger.Fatal("database init failed", zap.Error(err))
	}

	// Redis is optional; without it caches, revocations and OAuth state stay in process.
	utils.InitRedis(cfg)
	defer func() { _ = utils.CloseRedis() }()

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	seeded, err := repository.SeedSubjects(seedCtx, db, repository.DefaultSubjects)
	cancel()
	if err != nil {
		utils.Logger.Fatal("seed subjects failed", zap.Error(err))
	}
	if seeded > 0 {
		utils.InvalidateByPrefix(services.SubjectsCacheKey)
		utils.Logger.Info("seeded default subjects", zap.Int("count", seeded))
	}

	r := routes.SetupRouter(db, cfg)

	janitor, err := utils.StartJanitor(utils.DefaultJanitorSchedule, map[string]utils.Pruner{
		"rate_limiters": middleware.PruneLimiters,
	})
	if err != nil {
		utils.Logger.Fatal("start janitor failed", zap.Error(err))
	}
	defer janitor.Stop()

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
}
