package cmd

import (
	"context"
	"flag"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadAWSConfig builds the shared AWS client configuration. Static
// credentials are only injected when both halves are present; otherwise
// the default provider chain applies.
func LoadAWSConfig(ctx context.Context, cfg AWSConfig) (aws.Config, error) {
	opts := []func(*aws_config.LoadOptions) error{
		aws_config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	return aws_config.LoadDefaultConfig(ctx, opts...)
}
