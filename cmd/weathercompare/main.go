package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/weathercompare/internal/api"
	"github.com/lox/weathercompare/internal/config"
	"github.com/lox/weathercompare/internal/keepalive"
	"github.com/lox/weathercompare/internal/remote"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client := remote.NewClient(remote.Config{
		BaseURL:     cfg.APIURL,
		Timeout:     cfg.APITimeout,
		BaselineTTL: cfg.BaselineTTL,
	})
	log.Printf("weather service at %s", client.BaseURL())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.KeepAlive {
		pinger := keepalive.New(remote.NewClient(remote.Config{
			BaseURL: cfg.KeepAliveURL,
			Timeout: cfg.APITimeout,
		}), cfg.KeepAliveInterval)
		if err := pinger.Start(); err != nil {
			log.Fatalf("keepalive: %v", err)
		}
		defer pinger.Stop()
	} else {
		log.Println("keep-alive disabled (--no-keepalive)")
	}

	server := api.NewServer(client, api.Options{
		Port:          cfg.Port,
		RenderTimeout: cfg.RenderTimeout,
		OGImageTTL:    cfg.OGImageTTL,
		SiteURL:       cfg.SiteURL,
	})
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
