package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Config holds the settings for an S3 (or MinIO) target
type S3Config struct {
	Endpoint        string `yaml:"endpoint" toml:"endpoint"`
	Region          string `yaml:"region" toml:"region"`
	Bucket          string `yaml:"bucket" toml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id" toml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" toml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl" toml:"use_ssl"`
}

// Merge overlays non-empty connection options onto the config
func (c S3Config) Merge(options map[string]string) S3Config {
	if v := options["endpoint"]; v != "" {
		c.Endpoint = v
	}
	if v := options["region"]; v != "" {
		c.Region = v
	}
	if v := options["bucket"]; v != "" {
		c.Bucket = v
	}
	if v := options["accessKeyId"]; v != "" {
		c.AccessKeyID = v
	}
	if v := options["secretAccessKey"]; v != "" {
		c.SecretAccessKey = v
	}
	if v, err := strconv.ParseBool(options["useSsl"]); err == nil {
		c.UseSSL = v
	}
	return c
}

// s3API is the subset of the S3 client the sink uses
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage writes export output as objects in a bucket. Containers are
// zero-byte "dir/" marker objects.
type S3Storage struct {
	client s3API
	bucket string
	logger *zap.Logger
}

// NewS3Storage builds an S3 client with static credentials and path-style
// addressing so MinIO endpoints work too
func NewS3Storage(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				if cfg.UseSSL {
					endpoint = "https://" + endpoint
				} else {
					endpoint = "http://" + endpoint
				}
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3StorageWithClient(client, cfg.Bucket, logger), nil
}

func newS3StorageWithClient(client s3API, bucket string, logger *zap.Logger) *S3Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Storage{client: client, bucket: bucket, logger: logger}
}

func objectKey(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".xml":
		return "application/xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (s *S3Storage) put(ctx context.Context, key string, data []byte, ctype string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ctype),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}
	s.logger.Debug("object written", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// CreateContainer writes a directory marker object; rewriting it is harmless
func (s *S3Storage) CreateContainer(ctx context.Context, p string) error {
	key := objectKey(p)
	if key == "" {
		// bucket root always exists
		return nil
	}
	return s.put(ctx, key+"/", nil, "application/x-directory")
}

func (s *S3Storage) WriteBinary(ctx context.Context, p string, data []byte) error {
	key := objectKey(p)
	return s.put(ctx, key, data, contentType(key))
}

func (s *S3Storage) WriteText(ctx context.Context, p string, text string) error {
	key := objectKey(p)
	return s.put(ctx, key, []byte(text), contentType(key))
}
