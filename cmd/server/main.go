package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"inkwell/internal/config"
	"inkwell/internal/container"
	"inkwell/web"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalln("config:", err)
	}

	c, err := container.New(context.Background(), cfg)
	if err != nil {
		log.Fatalln("bootstrap:", err)
	}
	defer c.Close()

	c.Start()

	handler := web.NewRouteHandler(c.Producer, c.Progress, c.Claimer, c.Jobs, c.Stepper, cfg.ScheduleSecret, cfg.HTTPPort)
	log.Fatalln(handler.Serve())
}

func loadConfig() (*config.Config, error) {
	instance := envOr("INKWELL_INSTANCE", "inkwell-1")

	opts := []config.Option{
		config.WithPostgresURL(os.Getenv("INKWELL_POSTGRES_URL")),
	}

	if v := os.Getenv("INKWELL_HTTP_PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithHTTPPort(uint(port)))
	}
	if v := os.Getenv("INKWELL_SCHEDULE_SECRET"); v != "" {
		opts = append(opts, config.WithScheduleSecret(v))
	}
	if v, set := os.LookupEnv("INKWELL_CLAIM_SCHEDULE"); set {
		opts = append(opts, config.WithClaimSchedule(v))
	}
	if v := os.Getenv("INKWELL_WORKER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithWorkerCount(n))
	}
	if v := os.Getenv("INKWELL_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithBatchSize(n))
	}
	if os.Getenv("INKWELL_STEPPER_ENABLED") == "true" {
		opts = append(opts, config.WithStepperEnabled(true))
	}

	opts = append(opts, config.WithProvider(config.ProviderConfig{
		Name:         envOr("INKWELL_PROVIDER_NAME", config.DefaultProviderName),
		BaseURL:      os.Getenv("INKWELL_PROVIDER_BASE_URL"),
		TokenURL:     os.Getenv("INKWELL_PROVIDER_TOKEN_URL"),
		ClientID:     os.Getenv("INKWELL_PROVIDER_CLIENT_ID"),
		ClientSecret: os.Getenv("INKWELL_PROVIDER_CLIENT_SECRET"),
		CallbackURL:  envOr("INKWELL_CALLBACK_URL", "http://localhost:8080"),
	}))

	return config.New(instance, opts...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
