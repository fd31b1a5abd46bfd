package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/common"
	sc "github.com/dmitrijs2005/taskforge/internal/server/config"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

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

// AttachmentService stores attachment metadata in PostgreSQL and hands out
// presigned URLs so clients move the file bytes to and from object storage
// directly.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey builds a date-partitioned object key.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("tasks/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) getPresignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignedURLValidityDuration))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *AttachmentService) getPresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignedURLValidityDuration))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// CreateUploadTicket registers attachment metadata for an existing task and
// returns a presigned PUT URL the client uploads the file bytes to.
func (s *AttachmentService) CreateUploadTicket(ctx context.Context, taskID int64, fileName string, size int64) (*models.AttachmentUploadTicket, error) {
	if fileName == "" {
		return nil, common.ErrorValidation
	}
	if _, err := s.repomanager.Tasks(s.db).GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	key := GetRandomStorageKey()

	url, err := s.getPresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %v", err)
	}

	repo := s.repomanager.Attachments(s.db)
	a, err := repo.Create(ctx, &models.Attachment{
		TaskID:     taskID,
		FileName:   fileName,
		StorageKey: key,
		Size:       size,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating attachment: %v", err)
	}

	return &models.AttachmentUploadTicket{Attachment: a, URL: url}, nil
}

func (s *AttachmentService) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	repo := s.repomanager.Attachments(s.db)
	return repo.ListByTask(ctx, taskID)
}

// GetDownloadURL returns a presigned GET URL for a stored attachment.
func (s *AttachmentService) GetDownloadURL(ctx context.Context, id int64) (string, error) {
	repo := s.repomanager.Attachments(s.db)

	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	return s.getPresignedGetURL(ctx, a.StorageKey)
}
