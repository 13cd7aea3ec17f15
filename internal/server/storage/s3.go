// Package storage issues presigned URLs for attachment blobs kept in an
// S3-compatible bucket. Blob bytes never pass through the API server.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/google/uuid"
)

// PresignExpiry is how long an issued URL stays valid.
const PresignExpiry = 15 * time.Minute

// Presigner hands out short-lived upload and download URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

type S3Presigner struct {
	client *s3.PresignClient
	bucket string
}

// NewS3Presigner builds a presign client with static credentials taken from
// cfg. Path-style addressing keeps MinIO endpoints working.
func NewS3Presigner(ctx context.Context, cfg *sc.Config) (*S3Presigner, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3RootUser, cfg.S3RootPassword, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Presigner{client: newS3PresignClient(client), bucket: cfg.S3Bucket}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	in := &s3.PutObjectInput{Bucket: aws.String(p.bucket), Key: aws.String(key)}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	req, err := presignPutObject(p.client, ctx, in, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := presignGetObject(p.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

// NewStorageKey returns a fresh object key under the note's prefix.
func NewStorageKey(noteID string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("notes/%s/%d/%02d/%02d/%s", noteID, d.Year(), d.Month(), d.Day(), uuid.New())
}
