// Package sagemaker wraps the SageMaker pipeline API behind the narrow
// surface the reconciler needs: existence probing and create/update/delete
// of a pipeline by name.
package sagemaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/aws/smithy-go"
)

// PipelineAPI is the slice of the SDK client used here; fakes implement it
// in tests.
type PipelineAPI interface {
	DescribePipeline(ctx context.Context, params *sagemaker.DescribePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribePipelineOutput, error)
	CreatePipeline(ctx context.Context, params *sagemaker.CreatePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreatePipelineOutput, error)
	UpdatePipeline(ctx context.Context, params *sagemaker.UpdatePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdatePipelineOutput, error)
	DeletePipeline(ctx context.Context, params *sagemaker.DeletePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeletePipelineOutput, error)
}

// ServiceError wraps any pipeline-service failure other than a confirmed
// "not found" on probe or delete.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("sagemaker %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

type Client struct {
	api PipelineAPI
}

func NewClient(awsCfg aws.Config) *Client {
	return NewFromAPI(sagemaker.NewFromConfig(awsCfg))
}

func NewFromAPI(api PipelineAPI) *Client {
	return &Client{api: api}
}

// Exists reports whether a pipeline with the given name exists. A
// not-found response maps to false; any other failure is surfaced as a
// ServiceError rather than masked.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	_, err := c.api.DescribePipeline(ctx, &sagemaker.DescribePipelineInput{
		PipelineName: aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, &ServiceError{Op: "describe pipeline", Err: err}
	}
	return true, nil
}

func (c *Client) Create(ctx context.Context, name, roleArn, definition string) error {
	_, err := c.api.CreatePipeline(ctx, &sagemaker.CreatePipelineInput{
		PipelineName:       aws.String(name),
		RoleArn:            aws.String(roleArn),
		PipelineDefinition: aws.String(definition),
	})
	if err != nil {
		return &ServiceError{Op: "create pipeline", Err: err}
	}
	slog.Info("pipeline created", "pipeline", name)
	return nil
}

func (c *Client) Update(ctx context.Context, name, roleArn, definition string) error {
	_, err := c.api.UpdatePipeline(ctx, &sagemaker.UpdatePipelineInput{
		PipelineName:       aws.String(name),
		RoleArn:            aws.String(roleArn),
		PipelineDefinition: aws.String(definition),
	})
	if err != nil {
		return &ServiceError{Op: "update pipeline", Err: err}
	}
	slog.Info("pipeline updated", "pipeline", name)
	return nil
}

// Delete removes the pipeline. Deletion is best-effort: a not-found
// failure means the pipeline is already gone and is swallowed.
func (c *Client) Delete(ctx context.Context, name string) error {
	_, err := c.api.DeletePipeline(ctx, &sagemaker.DeletePipelineInput{
		PipelineName: aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			slog.Info("pipeline already absent", "pipeline", name)
			return nil
		}
		return &ServiceError{Op: "delete pipeline", Err: err}
	}
	slog.Info("pipeline deleted", "pipeline", name)
	return nil
}

func isNotFound(err error) bool {
	var notFound *types.ResourceNotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFound"
}
