package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/dbx"
	"github.com/dmitrijs2005/bookapi/internal/logging"
	sc "github.com/dmitrijs2005/bookapi/internal/server/config"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignExpiry is the lifetime of cover upload and download URLs.
const PresignExpiry = 15 * time.Minute

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

// CoverService hands out presigned S3 URLs for book cover images. The
// server never proxies image bytes.
type CoverService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewCoverService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *CoverService {
	return &CoverService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "cover_service"),
	}
}

// CoverStorageKey returns a fresh object key for a cover of the given book.
func CoverStorageKey(isbn string) string {
	d := time.Now()
	return fmt.Sprintf("covers/%s/%d/%02d/%v", isbn, d.Year(), d.Month(), uuid.New())
}

func (s *CoverService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// RequestUpload assigns a new cover key to the book and returns it together
// with a presigned PUT URL the client uploads the image to.
func (s *CoverService) RequestUpload(ctx context.Context, isbn string) (key, url string, err error) {
	if !s.config.CoversEnabled() {
		return "", "", common.ErrCoversDisabled
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", s.internal(ctx, "presign client", err)
	}

	err = s.repomanager.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Books(tx)
		if _, err := repo.GetByISBN(ctx, isbn); err != nil {
			return err
		}

		key = CoverStorageKey(isbn)
		bucket := s.config.S3Bucket
		req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(PresignExpiry))
		if err != nil {
			return fmt.Errorf("presign put: %w", err)
		}
		url = req.URL

		return repo.SetCoverKey(ctx, isbn, key)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", "", err
		}
		return "", "", s.internal(ctx, "request upload", err)
	}

	s.logger.Info(ctx, "cover upload issued", "isbn", isbn, "key", key)
	return key, url, nil
}

// DownloadURL returns a presigned GET URL for the book's cover. A book
// without a cover yields common.ErrorNotFound.
func (s *CoverService) DownloadURL(ctx context.Context, isbn string) (string, error) {
	if !s.config.CoversEnabled() {
		return "", common.ErrCoversDisabled
	}

	book, err := s.repomanager.Books(s.db).GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", s.internal(ctx, "get book", err)
	}
	if book.CoverKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", s.internal(ctx, "presign client", err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &book.CoverKey,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", s.internal(ctx, "presign get", err)
	}

	return req.URL, nil
}

func (s *CoverService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "cover storage failure", "op", op, "error", err)
	return common.ErrorInternal
}
