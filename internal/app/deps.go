package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nightpulse/nightpulse/internal/channel"
	"github.com/nightpulse/nightpulse/internal/chart"
	"github.com/nightpulse/nightpulse/internal/config"
	"github.com/nightpulse/nightpulse/internal/deliver"
	"github.com/nightpulse/nightpulse/internal/health"
	"github.com/nightpulse/nightpulse/internal/logging"
	"github.com/nightpulse/nightpulse/internal/notify"
	"github.com/nightpulse/nightpulse/internal/output"
	"github.com/nightpulse/nightpulse/internal/store"
)

// deps bundles everything the delivery commands share.
type deps struct {
	cfg  *config.Config
	log  *zap.SugaredLogger
	db   *store.DB
	orch *deliver.Orchestrator
}

// openDeps loads config and wires the provider, store, channels, and
// orchestrator. Callers must Close when done.
func openDeps() (*deps, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	charts := chart.NewRenderer(cfg.ChartDir(), log)
	provider := health.NewExportProvider(cfg.HealthExportDir, log)

	senders := []channel.Sender{
		channel.NewEmailSender(charts, config.SMTPPassword, log),
		channel.NewTelegramSender(charts, config.TelegramBotToken, log),
	}

	settings := func() channel.Settings {
		return channel.Settings{UserName: cfg.UserName, Channels: cfg.Channels}
	}

	orch := deliver.New(
		provider,
		db,
		senders,
		settings,
		notify.Desktop{},
		time.Now,
		cfg.ScanDays,
		cfg.ActiveHours,
		log,
	)

	return &deps{cfg: cfg, log: log, db: db, orch: orch}, nil
}

// Close releases the database handle.
func (d *deps) Close() {
	if err := d.db.Close(); err != nil {
		d.log.Warnw("database close failed", "error", err)
	}
}
