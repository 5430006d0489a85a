package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const contentType = "application/json"

// PutObjectAPI is the subset of the S3 client used for publishing.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store publishes generated documents under a bucket prefix.
type Store struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewStore(client PutObjectAPI, bucket, prefix string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewFromEnvironment builds a client from the default AWS credential chain.
func NewFromEnvironment(ctx context.Context, bucket, prefix, region string) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewStore(s3.NewFromConfig(cfg), bucket, prefix)
}

// WithPrefix returns a store writing below an additional key prefix.
func (s *Store) WithPrefix(sub string) *Store {
	return &Store{client: s.client, bucket: s.bucket, prefix: path.Join(s.prefix, sub)}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) Location(name string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key(name))
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", s.Location(name), err)
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", s.bucket).Str("key", key).Msg("document uploaded")
	return nil
}
