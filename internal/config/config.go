// Package config resolves the resource properties of a pipeline
// custom-resource event into one canonical, validated record.
package config

import (
	"fmt"
	"os"
)

const (
	DefaultRawPrefix        = "raw/"
	DefaultProcessedPrefix  = "processed/"
	DefaultModelPrefix      = "models/"
	DefaultCodePrefix       = "code/"
	DefaultInstanceType     = "ml.m5.large"
	DefaultGeneratorVersion = "v1"
)

// Env is an explicit environment-override map. Handlers build it from the
// process environment; tests substitute literals.
type Env map[string]string

// EnvFromOS captures the given keys from the process environment, skipping
// unset ones.
func EnvFromOS(keys ...string) Env {
	env := Env{}
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			env[key] = value
		}
	}
	return env
}

// Record is the canonical configuration of one reconciliation request.
// It is constructed once per request and never mutated.
type Record struct {
	PipelineName    string
	PipelineRoleArn string
	JobRoleArn      string
	BucketName      string

	RawPrefix       string
	ProcessedPrefix string
	ModelPrefix     string
	CodePrefix      string

	ProcessingImageUri string
	TrainingImageUri   string
	InferenceImageUri  string

	InstanceType     string
	EndpointName     string
	GeneratorVersion string
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required resource property %q", e.Field)
}

// Resolve merges request properties and environment overrides into a Record.
// Environment values win for the bucket name and raw prefix; for everything
// else the request properties are authoritative. The first absent required
// field is reported as a MissingFieldError.
func Resolve(props map[string]string, env Env) (Record, error) {
	rec := Record{
		PipelineName:       props["PipelineName"],
		PipelineRoleArn:    props["PipelineRoleArn"],
		JobRoleArn:         props["JobRoleArn"],
		BucketName:         firstNonEmpty(env["BUCKET_NAME"], props["BucketName"]),
		RawPrefix:          firstNonEmpty(env["RAW_PREFIX"], props["RawPrefix"], DefaultRawPrefix),
		ProcessedPrefix:    firstNonEmpty(props["ProcessedPrefix"], DefaultProcessedPrefix),
		ModelPrefix:        firstNonEmpty(props["ModelPrefix"], DefaultModelPrefix),
		CodePrefix:         firstNonEmpty(props["CodePrefix"], DefaultCodePrefix),
		ProcessingImageUri: props["ProcessingImageUri"],
		TrainingImageUri:   props["TrainingImageUri"],
		InferenceImageUri:  props["InferenceImageUri"],
		InstanceType:       firstNonEmpty(props["InstanceType"], DefaultInstanceType),
		EndpointName:       props["EndpointName"],
		GeneratorVersion:   firstNonEmpty(props["GeneratorVersion"], DefaultGeneratorVersion),
	}

	required := []struct {
		field string
		value string
	}{
		{"PipelineName", rec.PipelineName},
		{"PipelineRoleArn", rec.PipelineRoleArn},
		{"JobRoleArn", rec.JobRoleArn},
		{"BucketName", rec.BucketName},
		{"ProcessingImageUri", rec.ProcessingImageUri},
		{"TrainingImageUri", rec.TrainingImageUri},
		{"InferenceImageUri", rec.InferenceImageUri},
		{"EndpointName", rec.EndpointName},
	}
	for _, r := range required {
		if r.value == "" {
			return Record{}, &MissingFieldError{Field: r.field}
		}
	}

	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
