package pipeline

import (
	"strings"

	"sagemaker-pipeline-backend/internal/config"
)

// Parameter and step names referenced across the graph.
const (
	ParamInputDataUri    = "InputDataUri"
	ParamProcessedPrefix = "ProcessedPrefix"
	ParamModelPrefix     = "ModelPrefix"
	ParamInstanceType    = "InstanceType"

	StepPreprocess           = "Preprocess"
	StepTrain                = "Train"
	StepCreateModel          = "CreateModel"
	StepCreateEndpointConfig = "CreateEndpointConfig"
	StepCreateEndpoint       = "CreateEndpoint"
)

// Build compiles a configuration record into the five-step pipeline graph.
// The result is a pure function of cfg: no timestamps, generated ids, or
// map-iteration order reach the output, so identical records always yield
// structurally identical graphs.
func Build(cfg config.Record) Graph {
	rawData := s3Uri(cfg.BucketName, ensureSlash(cfg.RawPrefix)) + "data.csv"
	processed := s3Uri(cfg.BucketName, ensureSlash(cfg.ProcessedPrefix))
	models := s3Uri(cfg.BucketName, ensureSlash(cfg.ModelPrefix))
	code := s3Uri(cfg.BucketName, ensureSlash(cfg.CodePrefix))

	return Graph{
		Version: SchemaVersion,
		Parameters: []Parameter{
			{Name: ParamInputDataUri, Type: "String", DefaultValue: rawData},
			{Name: ParamProcessedPrefix, Type: "String", DefaultValue: processed},
			{Name: ParamModelPrefix, Type: "String", DefaultValue: models},
			{Name: ParamInstanceType, Type: "String", DefaultValue: cfg.InstanceType},
		},
		ExperimentConfig: ExperimentConfig{
			ExperimentName: cfg.PipelineName,
			TrialName:      cfg.PipelineName,
		},
		Steps: []Step{
			preprocessStep(cfg, code),
			trainStep(cfg, processed),
			createModelStep(cfg),
			createEndpointConfigStep(),
			createEndpointStep(cfg),
		},
	}
}

func preprocessStep(cfg config.Record, codeUri string) ProcessingStep {
	return ProcessingStep{
		StepName: StepPreprocess,
		Arguments: ProcessingArguments{
			ProcessingResources: ProcessingResources{
				ClusterConfig: ClusterConfig{
					InstanceCount:  1,
					InstanceType:   ParamRef(ParamInstanceType),
					VolumeSizeInGB: 30,
				},
			},
			AppSpecification: AppSpecification{
				ImageUri:            cfg.ProcessingImageUri,
				ContainerEntrypoint: []string{"python3", "/opt/ml/processing/input/code/preprocessing.py"},
			},
			RoleArn: cfg.JobRoleArn,
			ProcessingInputs: []ProcessingInput{
				{
					InputName: "code",
					S3Input: S3Input{
						S3Uri:       codeUri,
						LocalPath:   "/opt/ml/processing/input/code",
						S3DataType:  "S3Prefix",
						S3InputMode: "File",
					},
				},
				{
					InputName: "raw",
					S3Input: S3Input{
						S3Uri:       ParamRef(ParamInputDataUri),
						LocalPath:   "/opt/ml/processing/input/raw",
						S3DataType:  "S3Prefix",
						S3InputMode: "File",
					},
				},
			},
			ProcessingOutputConfig: ProcessingOutputConfig{
				Outputs: []ProcessingOutput{
					{
						OutputName: "train",
						S3Output: S3Output{
							S3Uri:        ParamRef(ParamProcessedPrefix),
							LocalPath:    "/opt/ml/processing/output/train",
							S3UploadMode: "EndOfJob",
						},
					},
					{
						OutputName: "test",
						S3Output: S3Output{
							S3Uri:        ParamRef(ParamProcessedPrefix),
							LocalPath:    "/opt/ml/processing/output/test",
							S3UploadMode: "EndOfJob",
						},
					},
				},
			},
		},
	}
}

func trainStep(cfg config.Record, processedUri string) TrainingStep {
	// The train/test subpaths are where the preprocessing script writes its
	// shares. That convention lives in the script, not in this graph, so
	// these are literal locations rather than references to Preprocess
	// outputs.
	return TrainingStep{
		StepName: StepTrain,
		Arguments: TrainingArguments{
			AlgorithmSpecification: AlgorithmSpecification{
				TrainingImage:     cfg.TrainingImageUri,
				TrainingInputMode: "File",
			},
			InputDataConfig: []Channel{
				{
					ChannelName: "train",
					DataSource: DataSource{
						S3DataSource: S3DataSource{
							S3Uri:                  processedUri + "train/",
							S3DataType:             "S3Prefix",
							S3DataDistributionType: "FullyReplicated",
						},
					},
					ContentType: "text/csv",
				},
				{
					ChannelName: "test",
					DataSource: DataSource{
						S3DataSource: S3DataSource{
							S3Uri:                  processedUri + "test/",
							S3DataType:             "S3Prefix",
							S3DataDistributionType: "FullyReplicated",
						},
					},
					ContentType: "text/csv",
				},
			},
			OutputDataConfig: OutputDataConfig{
				S3OutputPath: ParamRef(ParamModelPrefix),
			},
			ResourceConfig: ResourceConfig{
				InstanceCount:  1,
				InstanceType:   ParamRef(ParamInstanceType),
				VolumeSizeInGB: 30,
			},
			RoleArn: cfg.JobRoleArn,
			StoppingCondition: StoppingCondition{
				MaxRuntimeInSeconds: 3600,
			},
		},
	}
}

func createModelStep(cfg config.Record) ModelStep {
	return ModelStep{
		StepName: StepCreateModel,
		Arguments: ModelArguments{
			ExecutionRoleArn: cfg.JobRoleArn,
			PrimaryContainer: ContainerDefinition{
				Image:        cfg.InferenceImageUri,
				ModelDataUrl: StepRef(StepTrain, "ModelArtifacts.S3ModelArtifacts"),
			},
		},
	}
}

func createEndpointConfigStep() EndpointConfigStep {
	return EndpointConfigStep{
		StepName: StepCreateEndpointConfig,
		Arguments: EndpointConfigArguments{
			ProductionVariants: []ProductionVariant{
				{
					InitialInstanceCount: 1,
					InstanceType:         ParamRef(ParamInstanceType),
					ModelName:            StepRef(StepCreateModel, "ModelName"),
					VariantName:          "AllTraffic",
				},
			},
		},
	}
}

func createEndpointStep(cfg config.Record) EndpointStep {
	return EndpointStep{
		StepName: StepCreateEndpoint,
		Arguments: EndpointArguments{
			EndpointConfigName: StepRef(StepCreateEndpointConfig, "EndpointConfigName"),
			EndpointName:       cfg.EndpointName,
		},
	}
}

func s3Uri(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

func ensureSlash(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
