package sagemaker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "sagemaker-pipeline-backend/internal/sagemaker"
)

type fakeAPI struct {
	describeErr error
	createErr   error
	updateErr   error
	deleteErr   error

	describes int
	creates   []*sagemaker.CreatePipelineInput
	updates   []*sagemaker.UpdatePipelineInput
	deletes   []*sagemaker.DeletePipelineInput
}

func (f *fakeAPI) DescribePipeline(ctx context.Context, params *sagemaker.DescribePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribePipelineOutput, error) {
	f.describes++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &sagemaker.DescribePipelineOutput{}, nil
}

func (f *fakeAPI) CreatePipeline(ctx context.Context, params *sagemaker.CreatePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreatePipelineOutput, error) {
	f.creates = append(f.creates, params)
	return &sagemaker.CreatePipelineOutput{}, f.createErr
}

func (f *fakeAPI) UpdatePipeline(ctx context.Context, params *sagemaker.UpdatePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdatePipelineOutput, error) {
	f.updates = append(f.updates, params)
	return &sagemaker.UpdatePipelineOutput{}, f.updateErr
}

func (f *fakeAPI) DeletePipeline(ctx context.Context, params *sagemaker.DeletePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeletePipelineOutput, error) {
	f.deletes = append(f.deletes, params)
	return &sagemaker.DeletePipelineOutput{}, f.deleteErr
}

func TestExists(t *testing.T) {
	api := &fakeAPI{}
	c := client.NewFromAPI(api)

	exists, err := c.Exists(context.Background(), "demo")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, api.describes)
}

func TestExistsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "typed resource not found", err: &types.ResourceNotFound{}},
		{name: "generic api error code", err: &smithy.GenericAPIError{Code: "ResourceNotFound", Message: "no such pipeline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := client.NewFromAPI(&fakeAPI{describeErr: tt.err})

			exists, err := c.Exists(context.Background(), "demo")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestExistsPropagatesOtherFailures(t *testing.T) {
	api := &fakeAPI{describeErr: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}}
	c := client.NewFromAPI(api)

	_, err := c.Exists(context.Background(), "demo")

	var svcErr *client.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "describe pipeline", svcErr.Op)
}

func TestCreateAndUpdatePassDefinition(t *testing.T) {
	api := &fakeAPI{}
	c := client.NewFromAPI(api)

	require.NoError(t, c.Create(context.Background(), "demo", "role", `{"Version":"2020-12-01"}`))
	require.NoError(t, c.Update(context.Background(), "demo", "role", `{"Version":"2020-12-01"}`))

	require.Len(t, api.creates, 1)
	assert.Equal(t, "demo", *api.creates[0].PipelineName)
	assert.Equal(t, "role", *api.creates[0].RoleArn)
	assert.Equal(t, `{"Version":"2020-12-01"}`, *api.creates[0].PipelineDefinition)

	require.Len(t, api.updates, 1)
	assert.Equal(t, `{"Version":"2020-12-01"}`, *api.updates[0].PipelineDefinition)
}

func TestDeleteSwallowsNotFound(t *testing.T) {
	api := &fakeAPI{deleteErr: &types.ResourceNotFound{}}
	c := client.NewFromAPI(api)

	assert.NoError(t, c.Delete(context.Background(), "demo"))
	assert.Len(t, api.deletes, 1)
}

func TestDeletePropagatesOtherFailures(t *testing.T) {
	api := &fakeAPI{deleteErr: errors.New("throttled")}
	c := client.NewFromAPI(api)

	err := c.Delete(context.Background(), "demo")

	var svcErr *client.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "delete pipeline", svcErr.Op)
}
