package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Atan0707/wemsp-v2-sub000/agreement"
	"github.com/Atan0707/wemsp-v2-sub000/auth"
	"github.com/Atan0707/wemsp-v2-sub000/db"
	"github.com/Atan0707/wemsp-v2-sub000/family"
)

const expirySweepInterval = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	authService := auth.NewService(auth.NewRepository(pool), jwtSecret)
	familyRepo := family.NewRepository(pool)
	crudService := agreement.NewCRUDService(pool)
	lifecycleService := agreement.NewService(pool, nil)

	log.Printf("services ready: auth=%t family=%t agreements=%t; expiry sweep every %s",
		authService != nil, familyRepo != nil, crudService != nil, expirySweepInterval)

	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	// Sweep once at startup, then on the ticker until shutdown.
	runSweep(ctx, lifecycleService)
	for {
		select {
		case <-ctx.Done():
			log.Print("shutting down")
			return
		case <-ticker.C:
			runSweep(ctx, lifecycleService)
		}
	}
}

func runSweep(ctx context.Context, svc *agreement.Service) {
	n, err := svc.ExpireOverdue(ctx)
	if err != nil {
		log.Printf("expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("expired %d overdue agreements", n)
	}
}
