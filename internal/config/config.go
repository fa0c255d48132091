// Package config parses command-line flags and environment into the server
// configuration. A .env file in the working directory is loaded first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port              string        `help:"HTTP server port." default:"8080" env:"PORT" validate:"required,numeric"`
	APIURL            string        `name:"api-url" help:"Base URL of the weather service." default:"http://localhost:8000" env:"WEATHER_API_URL" validate:"required,url"`
	APITimeout        time.Duration `name:"api-timeout" help:"Per-request timeout for the weather service." default:"30s" env:"WEATHER_API_TIMEOUT" validate:"gt=0"`
	BaselineTTL       time.Duration `name:"baseline-ttl" help:"How long a baseline response is reused (0 disables)." default:"1m" env:"BASELINE_CACHE_TTL" validate:"gte=0"`
	RenderTimeout     time.Duration `name:"render-timeout" help:"How long a page waits for secondary lookups before rendering." default:"5s" env:"RENDER_TIMEOUT" validate:"gt=0"`
	OGImageTTL        time.Duration `name:"og-image-ttl" help:"How long a rendered OG image is cached." default:"10m" env:"OG_IMAGE_TTL" validate:"gt=0"`
	KeepAlive         bool          `name:"keepalive" help:"Ping the keep-alive URL periodically." default:"true" negatable:"" env:"KEEPALIVE"`
	KeepAliveURL      string        `name:"keepalive-url" help:"Service whose /health/ endpoint is pinged (defaults to --api-url)." env:"KEEPALIVE_URL" validate:"omitempty,url"`
	KeepAliveInterval time.Duration `name:"keepalive-interval" help:"Interval between keep-alive pings." default:"10m" env:"KEEPALIVE_INTERVAL" validate:"gt=0"`
	SiteURL           string        `name:"site-url" help:"Public origin used in absolute links such as og:image (defaults to the request host)." env:"SITE_URL" validate:"omitempty,url"`
}

// Load reads .env (if present) then parses args against the environment.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: load .env: %v", err)
	}
	return Parse(args)
}

// Parse parses args without touching .env files.
func Parse(args []string, options ...kong.Option) (*Config, error) {
	var cfg Config
	options = append([]kong.Option{
		kong.Name("weathercompare"),
		kong.Description("Compare today's weather with the same day in past years."),
	}, options...)

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if cfg.KeepAliveURL == "" {
		cfg.KeepAliveURL = cfg.APIURL
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
