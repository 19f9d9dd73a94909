package main

import (
	"log"

	"github.com/ngenohkevin/backupdeck/config"
	"github.com/ngenohkevin/backupdeck/internal/backup"
	"github.com/ngenohkevin/backupdeck/internal/dashboard"
	"github.com/ngenohkevin/backupdeck/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load display timezone: %v", err)
	}

	client, err := backup.NewClient(cfg.BackupServerURL, cfg.UpstreamTimeout)
	if err != nil {
		log.Fatalf("Failed to create backup client: %v", err)
	}

	dash := dashboard.New(client, dashboard.Options{
		Location:     loc,
		RowsCacheTTL: cfg.RowsCacheTTL,
	})

	srv := server.New(cfg, dash)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
