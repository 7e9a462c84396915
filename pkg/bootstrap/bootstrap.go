package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	shared "github.com/pipesync/server/pkg"
	"github.com/pipesync/server/pkg/archive"
	"github.com/pipesync/server/pkg/destination/googlesheets"
	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/infrastructure/database"
	"github.com/pipesync/server/pkg/infrastructure/oauth"
	infrapubsub "github.com/pipesync/server/pkg/infrastructure/pubsub"
	"github.com/pipesync/server/pkg/infrastructure/sentry"
	infrastorage "github.com/pipesync/server/pkg/infrastructure/storage"
	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/synchronizer"
)

// PipefyTimeout bounds a single GraphQL round trip.
const PipefyTimeout = 60 * time.Second

// Config holds standard configuration for all services
type Config struct {
	ProjectID         string
	EnablePublish     bool
	GCSArtifactBucket string

	PipefyEndpoint string
	PipefyToken    string
	ServiceAccount oauth.ServiceAccount
	Timezone       string

	SentryDSN   string
	Environment string
}

// Service holds initialized dependencies
type Service struct {
	DB     shared.Database
	Store  shared.BlobStore
	Pub    shared.Publisher
	Runner *synchronizer.Runner
	Config *Config
}

// LoadConfig reads configuration from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
func LoadConfig() *Config {
	_ = godotenv.Load()

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = shared.ProjectID // Fallback
	}

	return &Config{
		ProjectID:         projectID,
		EnablePublish:     os.Getenv("ENABLE_PUBLISH") == "true",
		GCSArtifactBucket: os.Getenv("GCS_ARTIFACT_BUCKET"),
		PipefyEndpoint:    getEnv("PIPEFY_ENDPOINT", pipefy.DefaultEndpoint),
		PipefyToken:       os.Getenv("PIPEFY_PERSONAL_ACCESS_TOKEN"),
		ServiceAccount: oauth.ServiceAccount{
			Email:      os.Getenv("CLIENT_EMAIL"),
			PrivateKey: os.Getenv("PRIVATE_KEY"),
		},
		Timezone:    getEnv("SHEET_TIMEZONE", "UTC"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
	component string
}

// WithGroup implements slog.Handler
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{
		Handler:   h.Handler.WithGroup(name),
		component: h.component,
	}
}

// WithAttrs implements slog.Handler
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newComp := h.component
	for _, a := range attrs {
		if a.Key == "component" {
			newComp = a.Value.String()
		}
	}
	return &ComponentHandler{
		Handler:   h.Handler.WithAttrs(attrs),
		component: newComp,
	}
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	comp := h.component

	// a per-record component overrides the logger's
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			comp = a.Value.String()
			return false
		}
		return true
	})

	if comp != "" {
		newRecord := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("[%s] %s", comp, r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			newRecord.AddAttrs(a)
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger configures structured logging with Cloud Logging compatible keys
func InitLogger() {
	opts := GetSlogHandlerOptions(ParseLevel(os.Getenv("LOG_LEVEL")))
	handler := slog.NewJSONHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(&ComponentHandler{Handler: handler}))
}

// NewLogger creates a configured logger instance writing to stdout.
func NewLogger(serviceName string) *slog.Logger {
	return NewLoggerTo(os.Stdout, serviceName, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewLoggerTo creates a configured logger instance writing to w.
func NewLoggerTo(w io.Writer, serviceName string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, GetSlogHandlerOptions(level))
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

// NewRunner wires the synchronizer to Pipefy and Google Sheets. store may
// be nil; snapshots are only archived when it is set and a bucket is
// configured.
func NewRunner(ctx context.Context, cfg *Config, store shared.BlobStore, logger *slog.Logger) (*synchronizer.Runner, error) {
	if cfg.PipefyToken == "" {
		return nil, fmt.Errorf("PIPEFY_PERSONAL_ACCESS_TOKEN is not set")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("SHEET_TIMEZONE: %w", err)
	}

	sheetsHTTP, err := oauth.NewServiceAccountClient(ctx, cfg.ServiceAccount, oauth.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets credentials: %w", err)
	}
	sheets, err := googlesheets.NewClient(ctx, logger, option.WithHTTPClient(sheetsHTTP))
	if err != nil {
		return nil, err
	}

	orchestrator := &synchronizer.Orchestrator{
		Client: pipefy.NewClient(cfg.PipefyEndpoint, oauth.NewBearerClient(cfg.PipefyToken, PipefyTimeout), logger),
		Sheets: sheets,
		Locale: sheetrow.BrazilianPortuguese(loc),
		Logger: logger,
	}
	if store != nil && cfg.GCSArtifactBucket != "" {
		orchestrator.Archiver = &archive.Snapshotter{Store: store, Bucket: cfg.GCSArtifactBucket}
		logger.Info("Snapshots enabled", "bucket", cfg.GCSArtifactBucket)
	}

	return &synchronizer.Runner{Syncer: orchestrator, Logger: logger}, nil
}

// NewService initializes all standard dependencies
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID)

	if err := sentry.Init(sentry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          os.Getenv("K_REVISION"),
		ServerName:       "pipesync",
		TracesSampleRate: 0,
	}, slog.Default()); err != nil {
		return nil, err
	}

	// Firestore
	fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Firestore init failed", "error", err)
		return nil, fmt.Errorf("firestore init: %w", err)
	}

	// Pub/Sub
	var pubAdapter shared.Publisher
	if cfg.EnablePublish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("PubSub init failed", "error", err)
			return nil, fmt.Errorf("pubsub init: %w", err)
		}
		pubAdapter = &infrapubsub.PubSubAdapter{Client: psClient}
		slog.Info("Pub/Sub: REAL (ENABLE_PUBLISH=true)")
	} else {
		pubAdapter = &infrapubsub.LogPublisher{}
		slog.Info("Pub/Sub: MOCK (LogPublisher)")
	}

	// Storage
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		slog.Error("Storage init failed", "error", err)
		return nil, fmt.Errorf("storage init: %w", err)
	}
	store := &infrastorage.StorageAdapter{Client: gcsClient}

	runner, err := NewRunner(ctx, cfg, store, slog.Default().With("component", "synchronizer"))
	if err != nil {
		slog.Error("Synchronizer init failed", "error", err)
		return nil, fmt.Errorf("synchronizer init: %w", err)
	}

	return &Service{
		DB:     database.NewFirestoreAdapter(fsClient),
		Pub:    pubAdapter,
		Store:  store,
		Runner: runner,
		Config: cfg,
	}, nil
}
