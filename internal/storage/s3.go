// Package storage uploads episode audio to S3 and derives the public
// URLs the feed publishes.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"iglesia/internal/logger"
)

// objectAPI is the S3 surface the store uses. Tests substitute fakes.
type objectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store manages MP3 objects in one bucket.
type S3Store struct {
	client objectAPI
	bucket string
	region string
}

// NewS3Store returns a store for the given bucket and region.
func NewS3Store(client objectAPI, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// Exists reports whether an object is already in the bucket. A missing
// object is not an error; anything else is.
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check s3://%s/%s: %w", s.bucket, key, err)
	}
	return true, nil
}

// UploadAudio stores an MP3 object and returns its public URL.
func (s *S3Store) UploadAudio(ctx context.Context, key string, audio []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}
	url := s.PublicURL(key)
	logger.Info("audio uploaded", "key", key, "bytes", len(audio), "url", url)
	return url, nil
}

// PublicURL derives the virtual-hosted public URL for an object.
func (s *S3Store) PublicURL(key string) string {
	region := s.region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, region, key)
}
