package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pos-backoffice/internal/config"
	"pos-backoffice/internal/db"
	"pos-backoffice/internal/importer"
	variantrepo "pos-backoffice/internal/repository/variant"
	"pos-backoffice/internal/upstream"
)

func main() {
	var (
		email    string
		password string
	)
	flag.StringVar(&email, "email", "", "Upstream account email")
	flag.StringVar(&password, "password", "", "Upstream account password")
	flag.Parse()

	if email == "" || password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	erp := upstream.New(cfg.UpstreamBaseURL, cfg.TenantKey, logger)
	if err := erp.Login(ctx, email, password); err != nil {
		logger.Fatalf("login: %v", err)
	}

	imp := importer.NewUpstream(erp, variantrepo.NewPostgres(pool, logger), logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d variants in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
