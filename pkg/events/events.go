// Package events defines the custom-resource event and response shapes
// exchanged with the provisioning framework.
package events

type RequestType string

const (
	RequestCreate RequestType = "Create"
	RequestUpdate RequestType = "Update"
	RequestDelete RequestType = "Delete"
)

// Event is the request delivered by the provisioning framework for one
// lifecycle change of a custom resource.
type Event struct {
	RequestType        RequestType       `json:"RequestType"`
	RequestId          string            `json:"RequestId,omitempty"`
	ResponseURL        string            `json:"ResponseURL,omitempty"`
	StackId            string            `json:"StackId,omitempty"`
	ResourceType       string            `json:"ResourceType,omitempty"`
	LogicalResourceId  string            `json:"LogicalResourceId,omitempty"`
	PhysicalResourceId string            `json:"PhysicalResourceId,omitempty"`
	ResourceProperties map[string]string `json:"ResourceProperties"`
}

// Data is the attribute payload returned to the provisioning framework.
// Only the fields relevant to the handled resource are populated.
type Data struct {
	PipelineName   string `json:"PipelineName,omitempty"`
	DefinitionHash string `json:"DefinitionHash,omitempty"`
	S3Uri          string `json:"S3Uri,omitempty"`
	Rows           int    `json:"Rows,omitempty"`
}

// Response carries the stable physical id of the resource plus the
// attributes exposed to the rest of the stack.
type Response struct {
	PhysicalResourceId string `json:"PhysicalResourceId"`
	Data               Data   `json:"Data"`
}
