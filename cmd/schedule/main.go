package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lmartell/crescraper/internal/config"
	"github.com/lmartell/crescraper/internal/infra/notify"
	"github.com/lmartell/crescraper/internal/infra/persistence"
	"github.com/lmartell/crescraper/internal/scraper"
	"github.com/lmartell/crescraper/internal/scraper/commercialmls"
	"github.com/lmartell/crescraper/internal/scraper/loopnet"
)

const lastRunMarker = "last_run"

func main() {
	configPath := flag.String("config", "", "path to JSON config file (defaults apply when empty)")
	runNow := flag.Bool("now", false, "run once immediately, then continue on schedule")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	runTime, err := time.Parse("15:04", cfg.Schedule.Time)
	if err != nil {
		log.Fatalf("schedule time %q is not HH:MM: %v", cfg.Schedule.Time, err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Schedule.Enabled {
		logger.Info("scheduling is disabled in the config, nothing to do",
			zap.String("hint", "set schedule.enabled or use the one-shot command"))
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	logger.Info("scheduler started",
		zap.String("daily_at", cfg.Schedule.Time),
		zap.Strings("websites", cfg.Websites))

	if *runNow {
		runOnce(cfg, logger)
	}

	for {
		next := nextRun(time.Now(), runTime.Hour(), runTime.Minute())
		logger.Info("next run scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-stop:
			timer.Stop()
			logger.Info("scheduler stopping")
			return
		case <-timer.C:
		}

		if alreadyRanToday(cfg.OutputDir, time.Now()) {
			logger.Info("already ran today, skipping")
			continue
		}
		runOnce(cfg, logger)
	}
}

// nextRun returns the next occurrence of hour:min strictly after now.
func nextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func alreadyRanToday(dir string, now time.Time) bool {
	raw, err := os.ReadFile(filepath.Join(dir, lastRunMarker))
	if err != nil {
		return false
	}
	last, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return false
	}
	return last.Format("2006-01-02") == now.Format("2006-01-02")
}

func markRun(dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, lastRunMarker), []byte(now.Format(time.RFC3339)), 0o644)
}

func runOnce(cfg *config.Config, logger *zap.Logger) {
	ranAt := time.Now()
	criteria, dropped := cfg.Criteria(ranAt)
	for _, tag := range dropped {
		logger.Warn("ignoring unknown property type", zap.String("type", tag))
	}
	if err := criteria.Validate(); err != nil {
		logger.Error("invalid search criteria", zap.Error(err))
		return
	}

	manager := scraper.NewManager(logger,
		loopnet.New(cfg.Browser, loopnet.DefaultSelectors().WithOverrides(cfg.Selectors.Loopnet), logger),
		commercialmls.New(cfg.Browser, commercialmls.DefaultSelectors().WithOverrides(cfg.Selectors.Commercialmls), logger),
	)

	results := manager.Search(criteria, nil)
	logger.Info("scheduled run complete", zap.Int("total", results.Total()))

	store := persistence.NewResultStore(cfg.OutputDir)
	if err := store.Save(results, ranAt, "scheduled"); err != nil {
		logger.Error("save results", zap.Error(err))
	}
	if err := markRun(cfg.OutputDir, ranAt); err != nil {
		logger.Error("write run marker", zap.Error(err))
	}

	if !cfg.Email.Enabled {
		return
	}
	sender, err := notify.NewSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, logger)
	if err != nil {
		logger.Warn("skipping email notification", zap.Error(err))
		return
	}
	subject, body := notify.BuildSummary(results, ranAt)
	if err := sender.Send(cfg.Email.To, subject, body); err != nil {
		logger.Error("email notification failed", zap.Error(err))
	}
}
