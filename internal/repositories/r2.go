package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	appconfig "contactdeck/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// AvatarStore holds contact avatar objects in a Cloudflare R2 bucket.
// Clients never stream bytes through this server; they get presigned URLs.
type AvatarStore struct {
	client *s3.Client
	bucket string
}

// NewAvatarStore builds an R2 client from static credentials and the
// account-scoped endpoint.
func NewAvatarStore(cfg appconfig.R2Config) *AvatarStore {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized R2 client")

	return &AvatarStore{client: client, bucket: cfg.BucketName}
}

// PresignPut creates a presigned URL for uploading an avatar object.
func (s *AvatarStore) PresignPut(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignGet creates a presigned URL for downloading an avatar object.
func (s *AvatarStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Exists checks whether the given object key is present in the bucket.
func (s *AvatarStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if ok := errors.As(err, &nsk); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
