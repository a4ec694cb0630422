// Package cfn delivers custom-resource results back to CloudFormation by
// uploading a response document to the event's pre-signed URL. It is the
// single place where a handler failure becomes a rollback signal.
package cfn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"sagemaker-pipeline-backend/pkg/events"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

type responseDocument struct {
	Status             Status      `json:"Status"`
	Reason             string      `json:"Reason,omitempty"`
	PhysicalResourceId string      `json:"PhysicalResourceId"`
	StackId            string      `json:"StackId"`
	RequestId          string      `json:"RequestId"`
	LogicalResourceId  string      `json:"LogicalResourceId"`
	Data               events.Data `json:"Data"`
}

type Responder struct {
	client *resty.Client
}

func NewResponder() *Responder {
	return &Responder{
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Send uploads the outcome of one handled event. A non-nil handlerErr
// produces a FAILED document whose reason carries the error text; result
// is used otherwise. The physical id falls back to the event's prior id so
// CloudFormation never sees an empty handle on failure.
func (r *Responder) Send(ctx context.Context, event events.Event, result events.Response, handlerErr error) error {
	doc := responseDocument{
		Status:             StatusSuccess,
		PhysicalResourceId: result.PhysicalResourceId,
		StackId:            event.StackId,
		RequestId:          event.RequestId,
		LogicalResourceId:  event.LogicalResourceId,
		Data:               result.Data,
	}
	if handlerErr != nil {
		doc.Status = StatusFailed
		doc.Reason = handlerErr.Error()
		if doc.PhysicalResourceId == "" {
			doc.PhysicalResourceId = event.PhysicalResourceId
		}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error serializing response document: %w", err)
	}

	// The pre-signed URL is signed with an empty content type.
	res, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "").
		SetBody(body).
		Put(event.ResponseURL)
	if err != nil {
		return fmt.Errorf("error uploading response document: %w", err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("response upload rejected: status %d: %s", res.StatusCode(), res.String())
	}

	return nil
}
