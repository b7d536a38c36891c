package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/app"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/config"

	delivery "github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/adapter/delivery/http"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a bearer token for the given owner id and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	// Ignore error if .env not found (e.g. prod).
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *issueToken != "" {
		token, err := delivery.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer).Issue(*issueToken, *tokenTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
