package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/clinformatics/formstudio/internal/catalog"
	"github.com/clinformatics/formstudio/internal/repo"
	"github.com/clinformatics/formstudio/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development keeps its settings in .env; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:formstudio.db?_pragma=foreign_keys(1)"
	}

	db, err := repo.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	log.Println("database ready")

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("loading template catalog: %v", err)
	}
	log.Printf("template catalog loaded (%d templates)", len(cat.List()))

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	if err := server.Run(ctx, server.Config{
		Port:    port,
		Repo:    db,
		Catalog: cat,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
