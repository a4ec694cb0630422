// Package reconcile drives the lifecycle of the externally hosted
// resources owned by this backend. Each reconciler takes one
// custom-resource event and converges the external state to match it.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sagemaker-pipeline-backend/internal/config"
	"sagemaker-pipeline-backend/internal/pipeline"
	"sagemaker-pipeline-backend/internal/sagemaker"
	"sagemaker-pipeline-backend/pkg/events"
)

const pipelinePhysicalIDPrefix = "sagemaker-pipeline-"

// PipelineService is the external pipeline-execution surface the
// reconciler mutates.
type PipelineService interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name, roleArn, definition string) error
	Update(ctx context.Context, name, roleArn, definition string) error
	Delete(ctx context.Context, name string) error
}

var _ PipelineService = (*sagemaker.Client)(nil)

type PipelineReconciler struct {
	service PipelineService
	env     config.Env
	compile func(config.Record) (pipeline.Definition, error)
}

func NewPipelineReconciler(service PipelineService, env config.Env) *PipelineReconciler {
	return &PipelineReconciler{
		service: service,
		env:     env,
		compile: pipeline.Compile,
	}
}

// Reconcile applies one lifecycle request: Create and Update both ensure
// the pipeline exists with the compiled definition (probing first to pick
// create vs. update), Delete removes it if present, and any other request
// type is a no-op. The returned physical id depends on the pipeline name
// alone, so the provisioning framework correlates the whole lifecycle of
// one resource even across updates that change prefixes or images.
func (r *PipelineReconciler) Reconcile(ctx context.Context, event events.Event) (events.Response, error) {
	cfg, err := config.Resolve(event.ResourceProperties, r.env)
	if err != nil {
		return events.Response{}, err
	}

	resp := events.Response{
		PhysicalResourceId: pipelinePhysicalIDPrefix + cfg.PipelineName,
		Data:               events.Data{PipelineName: cfg.PipelineName},
	}

	switch event.RequestType {
	case events.RequestCreate, events.RequestUpdate:
		def, err := r.compile(cfg)
		if err != nil {
			return events.Response{}, err
		}
		// A definition that does not parse must never reach the service;
		// rejecting it here keeps the external resource whole.
		if !json.Valid([]byte(def.Body)) {
			return events.Response{}, fmt.Errorf("%w: definition body is not valid JSON", pipeline.ErrInvalidDefinition)
		}

		exists, err := r.service.Exists(ctx, cfg.PipelineName)
		if err != nil {
			return events.Response{}, err
		}

		if exists {
			slog.Info("updating pipeline", "pipeline", cfg.PipelineName, "definition_hash", def.Hash)
			err = r.service.Update(ctx, cfg.PipelineName, cfg.PipelineRoleArn, def.Body)
		} else {
			slog.Info("creating pipeline", "pipeline", cfg.PipelineName, "definition_hash", def.Hash)
			err = r.service.Create(ctx, cfg.PipelineName, cfg.PipelineRoleArn, def.Body)
		}
		if err != nil {
			return events.Response{}, err
		}

		resp.Data.DefinitionHash = def.Hash
		return resp, nil

	case events.RequestDelete:
		exists, err := r.service.Exists(ctx, cfg.PipelineName)
		if err != nil {
			return events.Response{}, err
		}
		if !exists {
			slog.Info("pipeline already absent, nothing to delete", "pipeline", cfg.PipelineName)
			return resp, nil
		}

		if err := r.service.Delete(ctx, cfg.PipelineName); err != nil {
			return events.Response{}, err
		}
		return resp, nil

	default:
		slog.Warn("ignoring unknown request type", "request_type", event.RequestType, "pipeline", cfg.PipelineName)
		return resp, nil
	}
}
