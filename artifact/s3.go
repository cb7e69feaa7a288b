package artifact

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client used by S3.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores artifacts as objects under a key prefix.
type S3 struct {
	Client PutObjectAPI
	Bucket string
	Prefix string
}

// NewS3 returns an S3 store using the default AWS configuration chain
// (environment, shared config files, instance roles).
func NewS3(ctx context.Context, bucket, prefix string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &S3{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

// Key returns the object key for an artifact name.
func (s *S3) Key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(strings.Trim(s.Prefix, "/"), name)
}

// Put implements Store.
func (s *S3) Put(ctx context.Context, name, data string) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key(name)),
		Body:        strings.NewReader(data),
		ContentType: aws.String("text/plain"),
	})
	return err
}

// Location implements Store.
func (s *S3) Location() string {
	return "s3://" + s.Bucket + "/" + strings.Trim(s.Prefix, "/")
}
