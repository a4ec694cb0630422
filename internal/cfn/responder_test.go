package cfn_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sagemaker-pipeline-backend/internal/cfn"
	"sagemaker-pipeline-backend/pkg/events"
)

type capturedRequest struct {
	method string
	body   map[string]any
}

func captureServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestSendSuccess(t *testing.T) {
	var captured capturedRequest
	server := captureServer(t, &captured)
	defer server.Close()

	event := events.Event{
		RequestType:       events.RequestCreate,
		RequestId:         "req-1",
		ResponseURL:       server.URL,
		StackId:           "stack-1",
		LogicalResourceId: "Pipeline",
	}
	result := events.Response{
		PhysicalResourceId: "sagemaker-pipeline-demo",
		Data:               events.Data{PipelineName: "demo", DefinitionHash: "abc"},
	}

	err := cfn.NewResponder().Send(context.Background(), event, result, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, captured.method)
	assert.Equal(t, "SUCCESS", captured.body["Status"])
	assert.Equal(t, "sagemaker-pipeline-demo", captured.body["PhysicalResourceId"])
	assert.Equal(t, "stack-1", captured.body["StackId"])
	assert.Equal(t, "req-1", captured.body["RequestId"])
	assert.Equal(t, "Pipeline", captured.body["LogicalResourceId"])

	data, ok := captured.body["Data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", data["PipelineName"])
	assert.Equal(t, "abc", data["DefinitionHash"])
}

func TestSendFailureCarriesReasonAndPriorID(t *testing.T) {
	var captured capturedRequest
	server := captureServer(t, &captured)
	defer server.Close()

	event := events.Event{
		RequestType:        events.RequestUpdate,
		RequestId:          "req-2",
		ResponseURL:        server.URL,
		PhysicalResourceId: "sagemaker-pipeline-demo",
	}

	err := cfn.NewResponder().Send(context.Background(), event, events.Response{}, errors.New("definition rejected"))
	require.NoError(t, err)

	assert.Equal(t, "FAILED", captured.body["Status"])
	assert.Equal(t, "definition rejected", captured.body["Reason"])
	assert.Equal(t, "sagemaker-pipeline-demo", captured.body["PhysicalResourceId"])
}

func TestSendReportsRejectedUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusForbidden)
	}))
	defer server.Close()

	err := cfn.NewResponder().Send(context.Background(), events.Event{ResponseURL: server.URL}, events.Response{}, nil)
	assert.Error(t, err)
}
