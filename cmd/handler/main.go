package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"sagemaker-pipeline-backend/cmd"
	"sagemaker-pipeline-backend/internal/cfn"
	"sagemaker-pipeline-backend/internal/config"
	"sagemaker-pipeline-backend/internal/reconcile"
	"sagemaker-pipeline-backend/internal/sagemaker"
	"sagemaker-pipeline-backend/internal/storage"
	"sagemaker-pipeline-backend/pkg/events"
)

const (
	resourcePipeline = "pipeline"
	resourceSeed     = "seed"
)

type HandlerConfig struct {
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3EndpointURL      string `env:"S3_ENDPOINT_URL"`
	LocalStorageDir    string `env:"LOCAL_STORAGE_DIR"`
}

func main() {
	var eventPath, resource string
	var send bool
	flag.StringVar(&eventPath, "event", "", "path to the event JSON (default: stdin)")
	flag.StringVar(&resource, "resource", "", "handler to run: pipeline or seed (default: from the event's ResourceType)")
	flag.BoolVar(&send, "send", false, "upload the result to the event's ResponseURL")

	cmd.LoadEnvFile()

	var cfg HandlerConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	event, err := readEvent(eventPath)
	if err != nil {
		log.Fatalf("error reading event: %v", err)
	}
	if event.RequestId == "" {
		event.RequestId = uuid.NewString()
	}

	ctx := context.Background()

	awsCfg, err := cmd.LoadAWSConfig(ctx, cmd.AWSConfig{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		log.Fatalf("error loading AWS config: %v", err)
	}

	overrides := config.EnvFromOS("BUCKET_NAME", "RAW_PREFIX", "ROWS")

	var resp events.Response
	var handlerErr error

	switch resolveResource(resource, event.ResourceType) {
	case resourcePipeline:
		reconciler := reconcile.NewPipelineReconciler(sagemaker.NewClient(awsCfg), overrides)
		resp, handlerErr = reconciler.Reconcile(ctx, event)

	case resourceSeed:
		var store storage.ObjectStore
		if cfg.LocalStorageDir != "" {
			store, err = storage.NewLocalObjectStore(cfg.LocalStorageDir)
			if err != nil {
				log.Fatalf("error creating local object store: %v", err)
			}
		} else {
			store = storage.NewS3ObjectStore(awsCfg, cfg.S3EndpointURL)
		}
		reconciler := reconcile.NewSeedReconciler(store, overrides)
		resp, handlerErr = reconciler.Reconcile(ctx, event)

	default:
		log.Fatalf("unknown resource %q (expected %q or %q)", resource, resourcePipeline, resourceSeed)
	}

	if send && event.ResponseURL != "" {
		if sendErr := cfn.NewResponder().Send(ctx, event, resp, handlerErr); sendErr != nil {
			log.Fatalf("error sending response: %v", sendErr)
		}
	}

	if handlerErr != nil {
		slog.Error("event handling failed", "request_type", event.RequestType, "error", handlerErr)
		os.Exit(1)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		log.Fatalf("error serializing response: %v", err)
	}
	fmt.Println(string(out))
}

func readEvent(path string) (events.Event, error) {
	var raw []byte
	var err error

	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return events.Event{}, err
	}

	var event events.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return events.Event{}, fmt.Errorf("event is not valid JSON: %w", err)
	}
	return event, nil
}

func resolveResource(flagValue, resourceType string) string {
	if flagValue != "" {
		return flagValue
	}

	switch resourceType {
	case "Custom::DataSeed":
		return resourceSeed
	default:
		return resourcePipeline
	}
}
