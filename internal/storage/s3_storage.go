package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/guialocal/guialocal-backend/config"
)

const presignExpiry = 15 * time.Minute

var ErrContentTypeNotAllowed = errors.New("tipo de arquivo não permitido")

// AllowedImageTypes are the content types accepted for business photos.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

var folderPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
	ExpiresIn int64  `json:"expires_in"`
}

// PhotoUploader issues direct-to-bucket upload URLs.
type PhotoUploader interface {
	PresignPhotoUpload(ctx context.Context, businessID, filename, contentType string) (*PresignedURLResponse, error)
}

type S3Storage struct {
	presign *s3.PresignClient
	bucket  string
	region  string
	baseURL string
}

// NewS3Storage builds the client from static keys when configured and from
// the default credential chain otherwise.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &S3Storage{
		presign: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// PresignPhotoUpload returns a PUT URL valid for 15 minutes and the public
// URL the photo will have once uploaded.
func (s *S3Storage) PresignPhotoUpload(ctx context.Context, businessID, filename, contentType string) (*PresignedURLResponse, error) {
	if err := ValidateContentType(contentType, AllowedImageTypes); err != nil {
		return nil, err
	}
	key := PhotoKey(businessID, filename)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: req.URL,
		FileURL:   s.FileURL(key),
		Key:       key,
		ExpiresIn: int64(presignExpiry.Seconds()),
	}, nil
}

// FileURL is the public URL of key, through the CDN when configured.
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// PhotoKey places uploads under businesses/<id>/ with a random name and the
// original extension. Unsafe characters in the id are replaced.
func PhotoKey(businessID, filename string) string {
	folder := folderPattern.ReplaceAllString(businessID, "_")
	if folder == "" {
		folder = "unassigned"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("businesses", folder, uuid.NewString()+ext)
}

func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
}
