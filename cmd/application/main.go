package main

import (
	"context"
	"flag"
	"fmt"
	"gomarketplace_admin/config"
	"gomarketplace_admin/internal/catalog/app"
	"gomarketplace_admin/internal/catalog/business/drafts"
	"gomarketplace_admin/metrics"
	"gomarketplace_admin/pkg/dbconnect"
	"gomarketplace_admin/pkg/dbconnect/postgres"
	"log"
	"os"
	"time"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	draftPath := flag.String("draft", "", "draft file (.yaml or .csv)")
	charset := flag.String("charset", "", "charset of a CSV draft file (utf-8, windows-1251)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	log.Printf("\nStarted app\n")
	config.LoadDotEnv()

	if *draftPath == "" {
		log.Fatalf("-draft is required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	specs, err := drafts.LoadFile(*draftPath, *charset)
	if err != nil {
		log.Fatalf("Error loading drafts: %s", err)
	}

	var connector dbconnect.Database
	if cfg.Postgres.Enabled {
		connector = postgres.NewPgConnector(&cfg.Postgres)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	catalogApp := app.NewCatalogApp(connector, cfg, os.Stdout)
	results, err := catalogApp.Run(ctx, specs)
	if err != nil {
		log.Fatalf("Run failed: %s", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("#%d %-30q FAILED  %s\n", r.Index, r.Title, r.Err)
			continue
		}
		fmt.Printf("#%d %-30q CREATED %s\n", r.Index, r.Title, r.ProductID)
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Printf("Error writing metrics: %s", err)
		}
	}

	if failed > 0 {
		log.Printf("%d of %d drafts failed", failed, len(results))
		os.Exit(1)
	}
}
