package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sagemaker-pipeline-backend/cmd"
	"sagemaker-pipeline-backend/internal/api"
	"sagemaker-pipeline-backend/internal/config"
	"sagemaker-pipeline-backend/internal/reconcile"
	"sagemaker-pipeline-backend/internal/sagemaker"
	"sagemaker-pipeline-backend/internal/storage"
)

type APIConfig struct {
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3EndpointURL      string `env:"S3_ENDPOINT_URL"`
	APIPort            string `env:"API_PORT" envDefault:"8002"`
}

func main() {
	log.Println("Starting pipeline backend API server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	awsCfg, err := cmd.LoadAWSConfig(context.Background(), cmd.AWSConfig{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		log.Fatalf("error loading AWS config: %v", err)
	}

	overrides := config.EnvFromOS("BUCKET_NAME", "RAW_PREFIX", "ROWS")

	service := api.NewService(
		reconcile.NewPipelineReconciler(sagemaker.NewClient(awsCfg), overrides),
		reconcile.NewSeedReconciler(storage.NewS3ObjectStore(awsCfg, cfg.S3EndpointURL), overrides),
	)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	service.AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
