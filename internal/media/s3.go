package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/iliyamo/dorm-booking/internal/config"
)

// S3 keeps media in an S3 (or S3 compatible) bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	base   string // public URL of the bucket root, with trailing slash
}

// NewS3 loads AWS configuration and builds the client.  Static keys from
// cfg take precedence over the default credential chain.
func NewS3(ctx context.Context, cfg config.MediaConfig) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3: AWS_S3_BUCKET is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.S3Bucket, cfg.S3Region)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	if cfg.S3Endpoint != "" {
		base = strings.TrimSuffix(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket + "/"
	}
	return &S3{client: client, bucket: cfg.S3Bucket, prefix: cfg.S3Prefix, base: base}, nil
}

func (s *S3) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := s.prefix + objectName(name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.base + key, nil
}

func (s *S3) Remove(ctx context.Context, ref string) error {
	key, ok := s.keyOf(ref)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// keyOf maps a URL produced by Upload back to its object key.
func (s *S3) keyOf(ref string) (string, bool) {
	if !strings.HasPrefix(ref, s.base) {
		return "", false
	}
	key := strings.TrimPrefix(ref, s.base)
	return key, key != "" && strings.HasPrefix(key, s.prefix)
}
