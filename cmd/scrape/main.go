package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lmartell/crescraper/internal/config"
	"github.com/lmartell/crescraper/internal/domain/progress"
	"github.com/lmartell/crescraper/internal/infra/notify"
	"github.com/lmartell/crescraper/internal/infra/persistence"
	"github.com/lmartell/crescraper/internal/scraper"
	"github.com/lmartell/crescraper/internal/scraper/commercialmls"
	"github.com/lmartell/crescraper/internal/scraper/loopnet"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file (defaults apply when empty)")
	debug := flag.Bool("debug", false, "run the browser headful and hold it open at the end")
	flag.Parse()

	// Optional .env for the SMTP credentials.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *debug {
		cfg.Browser.Debug = true
	}

	logger, err := newLogger(cfg.Browser.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ranAt := time.Now()
	criteria, dropped := cfg.Criteria(ranAt)
	for _, tag := range dropped {
		logger.Warn("ignoring unknown property type", zap.String("type", tag))
	}
	if err := criteria.Validate(); err != nil {
		logger.Fatal("invalid search criteria", zap.Error(err))
	}

	manager := scraper.NewManager(logger,
		loopnet.New(cfg.Browser, loopnet.DefaultSelectors().WithOverrides(cfg.Selectors.Loopnet), logger),
		commercialmls.New(cfg.Browser, commercialmls.DefaultSelectors().WithOverrides(cfg.Selectors.Commercialmls), logger),
	)

	callbacks := make(map[string]progress.Func, len(manager.Sites()))
	for _, site := range manager.Sites() {
		site := site
		callbacks[site] = func(v float64) {
			fmt.Printf("[%s] %3.0f%%\n", site, v*100)
		}
	}

	results := manager.Search(criteria, callbacks)
	for _, site := range results {
		logger.Info("site finished",
			zap.String("site", site.Site),
			zap.Int("listings", len(site.Listings)))
	}
	logger.Info("search complete", zap.Int("total", results.Total()))

	store := persistence.NewResultStore(cfg.OutputDir)
	if err := store.Save(results, ranAt, "manual"); err != nil {
		logger.Error("save results", zap.Error(err))
	} else {
		logger.Info("results saved", zap.String("path", store.Path()))
	}

	if cfg.Email.Enabled {
		sendSummary(cfg, results, ranAt, logger)
	}
}

func sendSummary(cfg *config.Config, results scraper.Results, ranAt time.Time, logger *zap.Logger) {
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

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
