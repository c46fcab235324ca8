package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/worklog/internal/backend"
	"github.com/jask/worklog/internal/config"
	"github.com/jask/worklog/internal/database"
	"github.com/jask/worklog/internal/database/repository"
	"github.com/jask/worklog/internal/prefs"
	"github.com/jask/worklog/internal/service"
	"github.com/jask/worklog/internal/testdata"
	"github.com/jask/worklog/internal/tui"
)

func main() {
	reset := flag.Bool("reset", false, "delete every task and exit")
	seed := flag.Int("seed", 0, "insert `n` sample tasks before starting")
	initConfig := flag.Bool("init-config", false, "write the effective config to the config file and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *initConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		fmt.Println("wrote", config.Path())
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.Path, "worklog")
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()

	db, err := database.Prepare(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	taskRepo := repository.NewTaskRepo(db)
	tasks := &service.TaskService{Tasks: taskRepo, Similarity: cfg.UI.SimilarityThreshold}
	maintenance := &service.MaintenanceService{DB: db}

	if *reset {
		n, err := maintenance.Reset(ctx)
		if err != nil {
			log.Fatalf("reset: %v", err)
		}
		fmt.Printf("deleted %d tasks\n", n)
		return
	}
	if *seed > 0 {
		if err := testdata.Seed(ctx, taskRepo, *seed, time.Now().UnixNano(), database.Now()); err != nil {
			log.Fatalf("seed: %v", err)
		}
		total, err := taskRepo.Count(ctx)
		if err != nil {
			log.Fatalf("count tasks: %v", err)
		}
		log.Printf("seeded %d sample tasks, %d in total", *seed, total)
	}

	bridge := backend.NewBridge()
	backend.RegisterCommands(bridge, tasks, backend.NewWindow())
	log.Printf("commands: %v", bridge.Commands())

	opts := tui.Options{Config: cfg, Bridge: bridge, User: os.Getenv("USER")}
	if store, err := prefs.DefaultStore(); err == nil {
		opts.Drafts = &store
	} else {
		log.Printf("warn: drafts disabled: %v", err)
	}

	app, err := tui.New(ctx, opts)
	if err != nil {
		log.Fatalf("keys: %v", err)
	}
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
