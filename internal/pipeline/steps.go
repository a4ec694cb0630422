package pipeline

// Argument fields that accept either a literal value or a Reference are
// typed as any; everything else is concrete. The shapes mirror the
// SageMaker definition schema for each step type.

type ClusterConfig struct {
	InstanceCount  int `json:"InstanceCount"`
	InstanceType   any `json:"InstanceType"`
	VolumeSizeInGB int `json:"VolumeSizeInGB"`
}

type ProcessingResources struct {
	ClusterConfig ClusterConfig `json:"ClusterConfig"`
}

type AppSpecification struct {
	ImageUri            string   `json:"ImageUri"`
	ContainerEntrypoint []string `json:"ContainerEntrypoint,omitempty"`
}

type S3Input struct {
	S3Uri       any    `json:"S3Uri"`
	LocalPath   string `json:"LocalPath"`
	S3DataType  string `json:"S3DataType"`
	S3InputMode string `json:"S3InputMode"`
}

type ProcessingInput struct {
	InputName string  `json:"InputName"`
	S3Input   S3Input `json:"S3Input"`
}

type S3Output struct {
	S3Uri        any    `json:"S3Uri"`
	LocalPath    string `json:"LocalPath"`
	S3UploadMode string `json:"S3UploadMode"`
}

type ProcessingOutput struct {
	OutputName string   `json:"OutputName"`
	S3Output   S3Output `json:"S3Output"`
}

type ProcessingOutputConfig struct {
	Outputs []ProcessingOutput `json:"Outputs"`
}

type ProcessingArguments struct {
	ProcessingResources    ProcessingResources    `json:"ProcessingResources"`
	AppSpecification       AppSpecification       `json:"AppSpecification"`
	RoleArn                string                 `json:"RoleArn"`
	ProcessingInputs       []ProcessingInput      `json:"ProcessingInputs"`
	ProcessingOutputConfig ProcessingOutputConfig `json:"ProcessingOutputConfig"`
}

type ProcessingStep struct {
	StepName  string
	Arguments ProcessingArguments
}

func (s ProcessingStep) Name() string   { return s.StepName }
func (s ProcessingStep) Type() string   { return "Processing" }
func (s ProcessingStep) arguments() any { return s.Arguments }

type AlgorithmSpecification struct {
	TrainingImage     string `json:"TrainingImage"`
	TrainingInputMode string `json:"TrainingInputMode"`
}

type S3DataSource struct {
	S3Uri                  any    `json:"S3Uri"`
	S3DataType             string `json:"S3DataType"`
	S3DataDistributionType string `json:"S3DataDistributionType"`
}

type DataSource struct {
	S3DataSource S3DataSource `json:"S3DataSource"`
}

type Channel struct {
	ChannelName string     `json:"ChannelName"`
	DataSource  DataSource `json:"DataSource"`
	ContentType string     `json:"ContentType,omitempty"`
}

type OutputDataConfig struct {
	S3OutputPath any `json:"S3OutputPath"`
}

type ResourceConfig struct {
	InstanceCount  int `json:"InstanceCount"`
	InstanceType   any `json:"InstanceType"`
	VolumeSizeInGB int `json:"VolumeSizeInGB"`
}

type StoppingCondition struct {
	MaxRuntimeInSeconds int `json:"MaxRuntimeInSeconds"`
}

type TrainingArguments struct {
	AlgorithmSpecification AlgorithmSpecification `json:"AlgorithmSpecification"`
	InputDataConfig        []Channel              `json:"InputDataConfig"`
	OutputDataConfig       OutputDataConfig       `json:"OutputDataConfig"`
	ResourceConfig         ResourceConfig         `json:"ResourceConfig"`
	RoleArn                string                 `json:"RoleArn"`
	StoppingCondition      StoppingCondition      `json:"StoppingCondition"`
}

type TrainingStep struct {
	StepName  string
	Arguments TrainingArguments
}

func (s TrainingStep) Name() string   { return s.StepName }
func (s TrainingStep) Type() string   { return "Training" }
func (s TrainingStep) arguments() any { return s.Arguments }

type ContainerDefinition struct {
	Image        string `json:"Image"`
	ModelDataUrl any    `json:"ModelDataUrl,omitempty"`
}

type ModelArguments struct {
	ExecutionRoleArn string              `json:"ExecutionRoleArn"`
	PrimaryContainer ContainerDefinition `json:"PrimaryContainer"`
}

type ModelStep struct {
	StepName  string
	Arguments ModelArguments
}

func (s ModelStep) Name() string   { return s.StepName }
func (s ModelStep) Type() string   { return "Model" }
func (s ModelStep) arguments() any { return s.Arguments }

type ProductionVariant struct {
	InitialInstanceCount int    `json:"InitialInstanceCount"`
	InstanceType         any    `json:"InstanceType"`
	ModelName            any    `json:"ModelName"`
	VariantName          string `json:"VariantName"`
}

type EndpointConfigArguments struct {
	ProductionVariants []ProductionVariant `json:"ProductionVariants"`
}

type EndpointConfigStep struct {
	StepName  string
	Arguments EndpointConfigArguments
}

func (s EndpointConfigStep) Name() string   { return s.StepName }
func (s EndpointConfigStep) Type() string   { return "EndpointConfig" }
func (s EndpointConfigStep) arguments() any { return s.Arguments }

type EndpointArguments struct {
	EndpointConfigName any    `json:"EndpointConfigName"`
	EndpointName       string `json:"EndpointName"`
}

type EndpointStep struct {
	StepName  string
	Arguments EndpointArguments
}

func (s EndpointStep) Name() string   { return s.StepName }
func (s EndpointStep) Type() string   { return "Endpoint" }
func (s EndpointStep) arguments() any { return s.Arguments }
