package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/ydsbot/internal/bot"
	"github.com/example/ydsbot/internal/clock"
	"github.com/example/ydsbot/internal/config"
	"github.com/example/ydsbot/internal/database"
	"github.com/example/ydsbot/internal/ledger"
	"github.com/example/ydsbot/internal/quiz"
	"github.com/example/ydsbot/internal/scheduler"
	"github.com/example/ydsbot/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const usage = `Usage:
  ydsbot                     run the Telegram bot
  ydsbot import <file>       import words from an .xlsx or .csv file
  ydsbot export <zip>        write every document to a backup archive
  ydsbot restore <zip>       replace every document from a backup archive
  ydsbot stats               print the score summary
  ydsbot history <date>      print the answers given on a date (YYYY-MM-DD)
  ydsbot prune <date>        delete answer history older than a date`

// app holds everything both the bot and the one-shot commands need
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	clock   *clock.Network
	engine  *quiz.Engine
	db      *sqlx.DB
	history *database.AnswerRepository
}

func main() {
	v, err := config.NewViper()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load(v)
	log := config.NewLogger(cfg.LogLevel)

	a, err := newApp(cfg, log)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.close()

	if len(os.Args) > 1 {
		if err := a.runCommand(os.Args[1:]); err != nil {
			a.close()
			log.Fatalf("%s failed: %v", os.Args[1], err)
		}
		return
	}

	if err := a.runBot(); err != nil {
		a.close()
		log.Fatalf("Bot error: %v", err)
	}
}

func newApp(cfg *config.Config, log *logrus.Logger) (*app, error) {
	fs, err := store.NewFileStore(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	a.clock = clock.NewNetwork(cfg.TimeAPIURL, cfg.TimeAPITimeout, cfg.Location(), log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.TimeAPITimeout)
	a.clock.Sync(ctx)
	cancel()

	opts := quiz.Options{
		Store:   fs,
		Clock:   a.clock,
		Scoring: cfg.Scoring,
		Log:     log,
	}
	if cfg.HistoryDriver != "" && cfg.HistoryDriver != "none" {
		db, err := database.Connect(cfg.HistoryDriver, cfg.HistoryDSN)
		if err != nil {
			log.Warnf("Answer history disabled: %v", err)
		} else {
			a.db = db
			a.history = database.NewAnswerRepository(db)
			opts.History = a.history
		}
	}

	a.engine = quiz.New(opts)
	for _, d := range a.engine.Degraded() {
		log.Warn(d)
	}
	return a, nil
}

func (a *app) close() {
	if err := a.engine.Autosave(); err != nil {
		a.log.Errorf("Final save failed: %v", err)
	}
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func (a *app) runBot() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	botCfg := bot.DefaultConfig()
	botCfg.Token = a.cfg.TelegramToken
	botCfg.OwnerChatID = a.cfg.OwnerChatID

	var history bot.HistoryReader
	if a.history != nil {
		history = a.history
	}
	b, err := bot.NewBot(botCfg, a.engine, history, a.log)
	if err != nil {
		return err
	}

	sched := scheduler.New(ctx, a.engine, a.clock, a.cfg.Location(), a.log)
	if err := sched.Start(a.cfg.AutosaveInterval); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	a.log.Info("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info("Bot stopped successfully")
	return nil
}

func (a *app) runCommand(args []string) error {
	arg := func() (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("missing argument\n%s", usage)
		}
		return args[1], nil
	}

	switch args[0] {
	case "import":
		path, err := arg()
		if err != nil {
			return err
		}
		res, err := a.engine.ImportWords(path)
		if err != nil {
			return err
		}
		fmt.Printf("Processed: %d, added: %d, skipped: %d\n", res.TotalProcessed, res.Created, res.Skipped)
	case "export":
		path, err := arg()
		if err != nil {
			return err
		}
		return a.export(path)
	case "restore":
		path, err := arg()
		if err != nil {
			return err
		}
		return a.restore(path)
	case "stats":
		return a.printStats()
	case "history":
		date, err := arg()
		if err != nil {
			return err
		}
		if a.history == nil {
			return errors.New("answer history is disabled")
		}
		records, err := a.history.GetByDate(date)
		if err != nil {
			return err
		}
		return printJSON(records)
	case "prune":
		date, err := arg()
		if err != nil {
			return err
		}
		if a.history == nil {
			return errors.New("answer history is disabled")
		}
		if _, err := time.Parse(ledger.DateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q: %w", date, err)
		}
		n, err := a.history.DeleteBefore(date)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d answers\n", n)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	return nil
}

func (a *app) export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	manifest, err := a.engine.ExportArchive(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close archive: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	fmt.Printf("Exported %d files to %s\n", len(manifest.Files), path)
	return nil
}

func (a *app) restore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}
	manifest, err := a.engine.ImportArchive(f, info.Size())
	if err != nil {
		return err
	}
	fmt.Printf("Restored backup from %s (version %s)\n", manifest.BackupDate, manifest.Version)
	return nil
}

func (a *app) printStats() error {
	out := struct {
		Summary interface{}       `json:"summary"`
		Items   map[quiz.Kind]int `json:"items"`
		Synced  bool              `json:"clock_synced"`
		History interface{}       `json:"history,omitempty"`
	}{
		Summary: a.engine.Summary(7),
		Items:   a.engine.Counts(),
		Synced:  a.clock.Synced(),
	}
	if a.history != nil {
		today := a.clock.Now()
		stats, err := a.history.GetStatsByPeriod(today.AddDate(0, 0, -30).Format(ledger.DateLayout), today.Format(ledger.DateLayout))
		if err != nil {
			a.log.Warnf("Failed to read answer history: %v", err)
		} else {
			out.History = stats
		}
	}
	return printJSON(out)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
