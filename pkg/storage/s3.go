package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds S3-compatible object store configuration.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"UPLOADS_S3_BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"UPLOADS_S3_ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"UPLOADS_S3_SECRET_KEY"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"UPLOADS_S3_ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"UPLOADS_S3_REGION" envDefault:"us-east-1"`

	// PublicURL is the CDN or public URL prefix for non-secure objects (optional).
	PublicURL string `env:"UPLOADS_S3_PUBLIC_URL"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"UPLOADS_S3_PATH_STYLE"`
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *S3Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// S3Storage implements Storage on an S3-compatible object store.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       S3Config
}

// NewS3 creates an S3Storage with the given configuration.
func NewS3(cfg S3Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	client := s3.New(s3.Options{}, opts...)

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}, nil
}

// Put uploads data under key. Secure objects get a private ACL.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, opts ...PutOption) (*PutResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyContent
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	o := NewPutOptions(opts...)

	acl := types.ObjectCannedACLPublicRead
	if o.Secure {
		acl = types.ObjectCannedACLPrivate
	}

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(o.ContentType),
		ACL:           acl,
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &PutResult{
		Key:  key,
		URL:  s.publicURL(key),
		ETag: aws.ToString(out.ETag),
	}, nil
}

// URL returns the canonical object URL, or a presigned URL with WithSigned.
func (s *S3Storage) URL(ctx context.Context, key string, opts ...URLOption) (string, error) {
	o := NewURLOptions(opts...)

	if !o.ForceSigned {
		return s.publicURL(key), nil
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}
	if o.DownloadName != "" {
		disposition := fmt.Sprintf("attachment; filename=%q", o.DownloadName)
		input.ResponseContentDisposition = aws.String(disposition)
	}

	result, err := s.presigner.PresignGetObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = o.Expiry
	})
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}

	return result.URL, nil
}

// Delete removes an object from the bucket.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

func (s *S3Storage) publicURL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + key
	}

	if s.cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
		if s.cfg.PathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.Bucket, key)
		}
		return fmt.Sprintf("%s/%s", endpoint, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// validateKey rejects keys that could escape the bucket namespace.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
