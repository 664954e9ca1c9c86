package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaService hands out presigned S3 URLs for item photos. The backend
// never proxies image bytes; clients upload straight to the bucket.
type MediaService struct {
	Presigner *s3.PresignClient
	Bucket    string
}

// NewMediaService builds a MediaService for the given region and bucket.
func NewMediaService(region, bucket string) *MediaService {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load AWS config: %v", err)
	}
	return &MediaService{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    bucket,
	}
}

// GenerateUploadURL returns a presigned PUT URL and the object key the
// client should attach to its item afterwards.
func (s *MediaService) GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", "", fmt.Errorf("file name must not be empty: %w", ErrValidation)
	}
	key := "item-photos/" + time.Now().UTC().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigned, err := s.Presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return presigned.URL, key, nil
}

// GenerateReadURL returns a presigned GET URL for a stored photo.
func (s *MediaService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigned, err := s.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign read: %w", err)
	}
	return presigned.URL, nil
}
