package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"inkwell/internal/app"
	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/lock"
	"inkwell/internal/provider"
	"inkwell/internal/store"
	"inkwell/internal/store/postgres"
)

const stepperDelay = 250 * time.Millisecond

// Container holds all application dependencies. It is the single source
// of truth for wiring and ensures connections and services are created
// once.
type Container struct {
	Config *config.Config

	DB *sql.DB

	Jobs      store.RenderJobStore
	Schedules store.ScheduleStore
	Contents  store.ContentStore
	Audits    store.AuditStore

	LockManager lock.DistributedLockManager
	Renderer    provider.RenderProvider

	Producer *app.Producer
	Progress *app.ProgressReporter
	Claimer  *app.ScheduleClaimer
	Trigger  *app.ClaimTrigger
	Stepper  *provider.Stepper
}

// New creates and wires all dependencies, running migrations under the
// distributed migration lock. Call it once per application lifecycle.
// Pass WithDB to inject a connection for testing.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	opt := &containerConfig{}
	for _, o := range opts {
		o(opt)
	}

	database := opt.db
	if database == nil {
		var err error
		database, err = db.Open(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	lockManager := lock.NewPostgresDistributedLockManager(database)
	if !opt.skipMigrations {
		if err := db.Init(ctx, database, lockManager); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	jobs := postgres.NewPostgresRenderJobStore(database)
	schedules := postgres.NewPostgresScheduleStore(database)
	contents := postgres.NewPostgresContentStore(database)
	audits := postgres.NewPostgresAuditStore(database)

	var renderer provider.RenderProvider
	if cfg.Provider.BaseURL != "" {
		renderer = provider.NewHTTPProvider(cfg.Provider)
	} else {
		renderer = &provider.StubProvider{ProviderName: cfg.Provider.Name}
	}

	claimer := app.NewScheduleClaimer(schedules, contents, audits, app.HeuristicAnalyzer{}, cfg.WorkerCount, cfg.BatchSize)

	c := &Container{
		Config:      cfg,
		DB:          database,
		Jobs:        jobs,
		Schedules:   schedules,
		Contents:    contents,
		Audits:      audits,
		LockManager: lockManager,
		Renderer:    renderer,
		Producer:    app.NewProducer(jobs, renderer, cfg.Provider.CallbackURL),
		Progress:    app.NewProgressReporter(jobs),
		Claimer:     claimer,
	}

	if cfg.ClaimSchedule != "" {
		trigger, err := app.NewClaimTrigger(claimer, cfg.ClaimSchedule)
		if err != nil {
			return nil, fmt.Errorf("claim trigger: %w", err)
		}
		c.Trigger = trigger
	}

	if cfg.StepperEnabled {
		uploader := &provider.PlaceholderUploader{BaseURL: cfg.Provider.CallbackURL}
		c.Stepper = provider.NewStepper(jobs, uploader, stepperDelay)
	}

	return c, nil
}

// Start launches the optional in-process claim trigger.
func (c *Container) Start() {
	if c.Trigger != nil {
		c.Trigger.Start()
	}
}

// Close stops background services and releases the storage connection.
func (c *Container) Close() error {
	if c.Trigger != nil {
		c.Trigger.Stop()
	}
	return c.DB.Close()
}
