package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/GoDiagnose/internal/api"
	"github.com/Skufu/GoDiagnose/internal/dataset"
	"github.com/Skufu/GoDiagnose/internal/logging"
	"github.com/Skufu/GoDiagnose/internal/predictor"
	"github.com/Skufu/GoDiagnose/internal/store"
)

type Config struct {
	Port           string
	DatasetURL     string
	DatasetPath    string
	DatasetTimeout time.Duration
	Train          predictor.TrainConfig
	CacheSize      int
	AllowOrigins   []string
	DatabaseURL    string
	EnableDB       bool
	SentryDSN      string
	Logging        logging.Config
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	logging.Init(cfg.Logging)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logrus.Warnf("sentry init failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	deps := api.Deps{AllowOrigins: cfg.AllowOrigins}

	classifier, err := buildClassifier(ctx, cfg)
	if err != nil {
		fatal("failed to load model", err)
	}
	deps.Classifier = classifier

	if cfg.EnableDB {
		db, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal("database connection failed", err)
		}
		defer db.Close()
		deps.Recorder = db
		deps.DB = db
	}

	router := api.NewRouter(deps)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	logrus.Infof("server listening on :%s", cfg.Port)
	waitForShutdown(server)
}

// fatal reports a startup failure and exits without serving.
func fatal(msg string, err error) {
	sentry.CaptureException(err)
	sentry.Flush(2 * time.Second)
	logrus.WithError(err).Fatal(msg)
}

// buildClassifier loads the dataset and trains the predictor. It blocks
// until training has finished.
func buildClassifier(ctx context.Context, cfg *Config) (api.Classifier, error) {
	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"rows":     ds.Len(),
		"symptoms": len(ds.Symptoms),
	}).Info("dataset loaded")

	p, err := predictor.Train(ds, cfg.Train)
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}

	if cfg.CacheSize <= 0 {
		return p, nil
	}
	cache, err := predictor.NewCache(p, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cache, nil
}

func loadDataset(ctx context.Context, cfg *Config) (*dataset.Dataset, error) {
	if cfg.DatasetPath != "" {
		logrus.Infof("loading dataset from %s", cfg.DatasetPath)
		return dataset.Load(cfg.DatasetPath)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.DatasetTimeout)
	defer cancel()

	logrus.Infof("fetching dataset from %s", cfg.DatasetURL)
	return dataset.Fetch(fetchCtx, http.DefaultClient, cfg.DatasetURL)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	train := predictor.DefaultTrainConfig()
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatasetURL:   getEnv("DATASET_URL", dataset.DefaultURL),
		DatasetPath:  os.Getenv("DATASET_PATH"),
		AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		EnableDB:     strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		Logging: logging.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	var err error
	if cfg.DatasetTimeout, err = time.ParseDuration(getEnv("DATASET_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("invalid DATASET_TIMEOUT: %w", err)
	}
	if train.Epochs, err = strconv.Atoi(getEnv("TRAIN_EPOCHS", strconv.Itoa(train.Epochs))); err != nil || train.Epochs <= 0 {
		return nil, fmt.Errorf("TRAIN_EPOCHS must be a positive integer")
	}
	if train.LearningRate, err = strconv.ParseFloat(getEnv("TRAIN_LEARNING_RATE", "0.001"), 64); err != nil || train.LearningRate <= 0 {
		return nil, fmt.Errorf("TRAIN_LEARNING_RATE must be a positive number")
	}
	if train.Dropout, err = strconv.ParseFloat(getEnv("TRAIN_DROPOUT", "0.3"), 64); err != nil || train.Dropout < 0 || train.Dropout >= 1 {
		return nil, fmt.Errorf("TRAIN_DROPOUT must be in [0, 1)")
	}
	if train.Seed, err = strconv.ParseInt(getEnv("TRAIN_SEED", "42"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid TRAIN_SEED: %w", err)
	}
	cfg.Train = train

	if cfg.CacheSize, err = strconv.Atoi(getEnv("PREDICTION_CACHE_SIZE", "256")); err != nil || cfg.CacheSize < 0 {
		return nil, fmt.Errorf("PREDICTION_CACHE_SIZE must be a non-negative integer")
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
