// Package storage uploads media blobs to temporary S3-compatible storage
// ahead of an OCR import. The backend reads them back by storage path.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	cc "github.com/dmitrijs2005/recipekeeper/internal/client/config"
)

var ErrEmptyBlob = errors.New("empty blob")

// Uploader stores one blob and returns the path the backend should read.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	now = time.Now
)

type S3Uploader struct {
	config *cc.Config

	mu     sync.Mutex
	client *s3.Client
}

func NewS3Uploader(config *cc.Config) *S3Uploader {
	return &S3Uploader{config: config}
}

// StorageKey builds imports/<year>/<month>/<day>/<uuid><ext>.
func StorageKey(contentType string) string {
	d := now()
	return fmt.Sprintf("imports/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), extension(contentType))
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/heic":
		return ".heic"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.client != nil {
		return u.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3AccessKey,
			u.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	u.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return u.client, nil
}

func (u *S3Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyBlob
	}

	client, err := u.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("storage client: %w", err)
	}

	bucket := u.config.S3Bucket
	key := StorageKey(contentType)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return key, nil
}
