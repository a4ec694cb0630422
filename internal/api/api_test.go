package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	backend "sagemaker-pipeline-backend/internal/api"
	"sagemaker-pipeline-backend/internal/config"
	"sagemaker-pipeline-backend/internal/reconcile"
	"sagemaker-pipeline-backend/pkg/events"
)

type stubPipelineService struct {
	exists  bool
	creates int
	updates int
	deletes int
}

func (s *stubPipelineService) Exists(ctx context.Context, name string) (bool, error) {
	return s.exists, nil
}

func (s *stubPipelineService) Create(ctx context.Context, name, roleArn, definition string) error {
	s.creates++
	return nil
}

func (s *stubPipelineService) Update(ctx context.Context, name, roleArn, definition string) error {
	s.updates++
	return nil
}

func (s *stubPipelineService) Delete(ctx context.Context, name string) error {
	s.deletes++
	return nil
}

type stubObjectStore struct {
	puts map[string]string
}

func (s *stubObjectStore) PutObject(ctx context.Context, bucket, key string, data io.Reader) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.puts == nil {
		s.puts = map[string]string{}
	}
	s.puts[bucket+"/"+key] = string(body)
	return nil
}

func (s *stubObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	return []byte(s.puts[bucket+"/"+key]), nil
}

func (s *stubObjectStore) DeleteObject(ctx context.Context, bucket, key string) error {
	return nil
}

func newRouter(service *stubPipelineService, store *stubObjectStore) chi.Router {
	svc := backend.NewService(
		reconcile.NewPipelineReconciler(service, config.Env{}),
		reconcile.NewSeedReconciler(store, config.Env{}),
	)
	router := chi.NewRouter()
	svc.AddRoutes(router)
	return router
}

func postEvent(t *testing.T, router chi.Router, path string, event events.Event) *httptest.ResponseRecorder {
	body, err := json.Marshal(event)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func pipelineEvent(requestType events.RequestType) events.Event {
	return events.Event{
		RequestType: requestType,
		ResourceProperties: map[string]string{
			"PipelineName":       "demo",
			"PipelineRoleArn":    "arn:aws:iam::123456789012:role/pipeline",
			"JobRoleArn":         "arn:aws:iam::123456789012:role/job",
			"BucketName":         "b",
			"ProcessingImageUri": "img-p",
			"TrainingImageUri":   "img-t",
			"InferenceImageUri":  "img-i",
			"EndpointName":       "demo-ep",
		},
	}
}

func TestPipelineEventEndpoint(t *testing.T) {
	service := &stubPipelineService{exists: false}
	router := newRouter(service, &stubObjectStore{})

	rec := postEvent(t, router, "/pipelines/events", pipelineEvent(events.RequestCreate))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp events.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sagemaker-pipeline-demo", resp.PhysicalResourceId)
	assert.Equal(t, "demo", resp.Data.PipelineName)
	assert.Len(t, resp.Data.DefinitionHash, 64)
	assert.Equal(t, 1, service.creates)
	assert.Equal(t, 0, service.updates)
}

func TestPipelineEventMissingFieldIsBadRequest(t *testing.T) {
	router := newRouter(&stubPipelineService{}, &stubObjectStore{})

	event := pipelineEvent(events.RequestCreate)
	delete(event.ResourceProperties, "EndpointName")

	rec := postEvent(t, router, "/pipelines/events", event)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EndpointName")
}

func TestPipelineEventMalformedBody(t *testing.T) {
	router := newRouter(&stubPipelineService{}, &stubObjectStore{})

	req := httptest.NewRequest(http.MethodPost, "/pipelines/events", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedEventEndpoint(t *testing.T) {
	store := &stubObjectStore{}
	router := newRouter(&stubPipelineService{}, store)

	rec := postEvent(t, router, "/seeds/events", events.Event{
		RequestType:        events.RequestCreate,
		ResourceProperties: map[string]string{"Bucket": "b", "Rows": "10"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp events.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "seed-b-raw", resp.PhysicalResourceId)
	assert.Equal(t, "s3://b/raw/data.csv", resp.Data.S3Uri)
	assert.Equal(t, 10, resp.Data.Rows)
	assert.Contains(t, store.puts, "b/raw/data.csv")
}

func TestSeedEventMissingBucketIsBadRequest(t *testing.T) {
	router := newRouter(&stubPipelineService{}, &stubObjectStore{})

	rec := postEvent(t, router, "/seeds/events", events.Event{
		RequestType:        events.RequestCreate,
		ResourceProperties: map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
