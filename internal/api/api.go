// Package api exposes the reconcilers over HTTP for local testing: each
// endpoint accepts one custom-resource event and returns the response the
// provisioning framework would receive.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sagemaker-pipeline-backend/internal/config"
	"sagemaker-pipeline-backend/internal/pipeline"
	"sagemaker-pipeline-backend/internal/reconcile"
	"sagemaker-pipeline-backend/internal/sagemaker"
	"sagemaker-pipeline-backend/pkg/events"
)

type Service struct {
	pipelines *reconcile.PipelineReconciler
	seeds     *reconcile.SeedReconciler
}

func NewService(pipelines *reconcile.PipelineReconciler, seeds *reconcile.SeedReconciler) *Service {
	return &Service{pipelines: pipelines, seeds: seeds}
}

func (s *Service) AddRoutes(r chi.Router) {
	r.Post("/pipelines/events", RestHandler(s.handlePipelineEvent))
	r.Post("/seeds/events", RestHandler(s.handleSeedEvent))
}

func (s *Service) handlePipelineEvent(r *http.Request) (any, error) {
	event, err := ParseRequest[events.Event](r)
	if err != nil {
		return nil, err
	}
	if event.RequestId == "" {
		event.RequestId = uuid.NewString()
	}

	resp, err := s.pipelines.Reconcile(r.Context(), event)
	if err != nil {
		return nil, coerceReconcileError(err)
	}
	return resp, nil
}

func (s *Service) handleSeedEvent(r *http.Request) (any, error) {
	event, err := ParseRequest[events.Event](r)
	if err != nil {
		return nil, err
	}
	if event.RequestId == "" {
		event.RequestId = uuid.NewString()
	}

	resp, err := s.seeds.Reconcile(r.Context(), event)
	if err != nil {
		return nil, coerceReconcileError(err)
	}
	return resp, nil
}

func coerceReconcileError(err error) error {
	var missing *config.MissingFieldError
	if errors.As(err, &missing) || errors.Is(err, pipeline.ErrInvalidDefinition) {
		return CodedErrorf(http.StatusBadRequest, "%v", err)
	}

	var svcErr *sagemaker.ServiceError
	if errors.As(err, &svcErr) {
		return CodedErrorf(http.StatusBadGateway, "%v", err)
	}

	return err
}
