package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"sagemaker-pipeline-backend/internal/config"
	"sagemaker-pipeline-backend/internal/seed"
	"sagemaker-pipeline-backend/internal/storage"
	"sagemaker-pipeline-backend/pkg/events"
)

// SeedReconciler keeps a synthetic raw dataset at
// s3://<bucket>/<rawPrefix>data.csv in step with the resource lifecycle:
// Create and Update regenerate and upload it, Delete removes it
// best-effort.
type SeedReconciler struct {
	store storage.ObjectStore
	env   config.Env
	rng   *rand.Rand
}

func NewSeedReconciler(store storage.ObjectStore, env config.Env) *SeedReconciler {
	return &SeedReconciler{
		store: store,
		env:   env,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *SeedReconciler) Reconcile(ctx context.Context, event events.Event) (events.Response, error) {
	props := event.ResourceProperties

	bucket := firstNonEmpty(r.env["BUCKET_NAME"], props["Bucket"])
	if bucket == "" {
		return events.Response{}, &config.MissingFieldError{Field: "Bucket"}
	}
	rawPrefix := firstNonEmpty(r.env["RAW_PREFIX"], props["RawPrefix"], config.DefaultRawPrefix)

	rows := seed.DefaultRows
	if rowsStr := firstNonEmpty(props["Rows"], r.env["ROWS"]); rowsStr != "" {
		parsed, err := strconv.Atoi(rowsStr)
		if err != nil {
			return events.Response{}, fmt.Errorf("invalid Rows value %q: %w", rowsStr, err)
		}
		rows = parsed
	}

	// The physical id survives prefix-preserving updates: reuse the one the
	// framework already knows, otherwise derive it from the seed location.
	physicalID := event.PhysicalResourceId
	if physicalID == "" {
		physicalID = fmt.Sprintf("seed-%s-%s", bucket, strings.TrimSuffix(rawPrefix, "/"))
	}

	key := strings.TrimSuffix(rawPrefix, "/") + "/data.csv"

	switch event.RequestType {
	case events.RequestCreate, events.RequestUpdate:
		body := seed.BuildCSV(rows, seed.DefaultFeatures, r.rng)
		if err := r.store.PutObject(ctx, bucket, key, strings.NewReader(body)); err != nil {
			return events.Response{}, err
		}

		return events.Response{
			PhysicalResourceId: physicalID,
			Data: events.Data{
				S3Uri: fmt.Sprintf("s3://%s/%s", bucket, key),
				Rows:  rows,
			},
		}, nil

	case events.RequestDelete:
		if err := r.store.DeleteObject(ctx, bucket, key); err != nil {
			slog.Warn("best-effort seed object delete failed", "bucket", bucket, "key", key, "error", err)
		}
		return events.Response{PhysicalResourceId: physicalID}, nil

	default:
		slog.Warn("ignoring unknown request type", "request_type", event.RequestType)
		return events.Response{PhysicalResourceId: physicalID}, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
