package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var loadDefaultAWSConfig = config.LoadDefaultConfig

// objectAPI is the part of *s3.Client the asset host needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config describes the bucket holding post images.
//
// BaseEndpoint points at a MinIO style server; leave it empty for AWS.
// PublicBaseURL is the prefix clients fetch objects from; it defaults to the
// endpoint plus bucket (path style) or the AWS virtual-hosted bucket URL.
type S3Config struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3AssetHost is an AssetHost backed by an S3 bucket.
type S3AssetHost struct {
	client     objectAPI
	bucket     string
	publicBase string
	now        func() time.Time
}

var _ AssetHost = (*S3AssetHost)(nil)

// NewS3AssetHost builds an S3 client from cfg.
func NewS3AssetHost(ctx context.Context, cfg S3Config) (*S3AssetHost, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3AssetHost(client, cfg.Bucket, publicBaseURL(cfg)), nil
}

func newS3AssetHost(client objectAPI, bucket, publicBase string) *S3AssetHost {
	return &S3AssetHost{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
	}
}

func publicBaseURL(cfg S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.BaseEndpoint != "":
		return strings.TrimRight(cfg.BaseEndpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload puts the asset under a fresh date-partitioned key.
func (h *S3AssetHost) Upload(ctx context.Context, asset *Asset) (string, error) {
	key := h.newKey(asset.Name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   asset.Body,
	}
	if asset.ContentType != "" {
		in.ContentType = aws.String(asset.ContentType)
	}
	if asset.Size > 0 {
		in.ContentLength = aws.Int64(asset.Size)
	}

	if _, err := h.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return h.publicBase + "/" + key, nil
}

// Delete removes the object behind url.
func (h *S3AssetHost) Delete(ctx context.Context, url string) error {
	key, ok := h.keyFromURL(url)
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignAsset, url)
	}
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (h *S3AssetHost) newKey(name string) string {
	d := h.now().UTC()
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("posts/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (h *S3AssetHost) keyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, h.publicBase+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
