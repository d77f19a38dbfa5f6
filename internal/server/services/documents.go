package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/logging"
	sc "github.com/dmitrijs2005/plms/internal/server/config"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// PresignLifetime bounds how long upload and download URLs stay valid.
const PresignLifetime = 15 * time.Minute

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

	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in, optFns...)
	}
)

// DocumentUpload is where a client PUTs a tool document.
type DocumentUpload struct {
	Key string
	URL string
}

// DocumentService hands out presigned object-storage URLs for tool
// documents. File bytes never pass through the server.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, log logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		config:      cfg,
		log:         log.With("module", "documents"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func documentKey(toolID string) string {
	return fmt.Sprintf("tools/%s/%v", toolID, uuid.New())
}

// validDocumentKey reports whether key has the shape documentKey produces
// for toolID.
func validDocumentKey(toolID, key string) bool {
	rest, ok := strings.CutPrefix(key, "tools/"+toolID+"/")
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

func (s *DocumentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, err
	}
	return newS3PresignClient(client), nil
}

func (s *DocumentService) getS3Client(ctx context.Context) (*s3.Client, error) {
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
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		// MinIO serves buckets under the path, not a subdomain.
		o.UsePathStyle = true
	})

	return client, nil
}

// UploadURL presigns a PUT for a fresh document key. The tool is not
// changed until the client commits the key after uploading.
func (s *DocumentService) UploadURL(ctx context.Context, toolID string) (*DocumentUpload, error) {
	repo := s.repomanager.Tools(s.db)

	if _, err := repo.Get(ctx, toolID); err != nil {
		return nil, s.lookupError(ctx, toolID, err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		s.log.Error(ctx, "object storage config failed", "error", err)
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := documentKey(toolID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignLifetime))
	if err != nil {
		s.log.Error(ctx, "presign put failed", "tool_id", toolID, "error", err)
		return nil, common.ErrorInternal
	}

	return &DocumentUpload{Key: key, URL: req.URL}, nil
}

// CommitDocument makes key the tool's document once the object is in the
// bucket, replacing any previous document. A key that was not issued for
// this tool, or whose object was never uploaded, is common.ErrorValidation.
func (s *DocumentService) CommitDocument(ctx context.Context, toolID, key string) (*models.Tool, error) {
	if !validDocumentKey(toolID, key) {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Tools(s.db)
	if _, err := repo.Get(ctx, toolID); err != nil {
		return nil, s.lookupError(ctx, toolID, err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		s.log.Error(ctx, "object storage config failed", "error", err)
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	if _, err := headObject(client, ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key}); err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			s.log.Info(ctx, "document not uploaded", "tool_id", toolID, "key", key)
			return nil, common.ErrorValidation
		}
		s.log.Error(ctx, "head object failed", "tool_id", toolID, "error", err)
		return nil, common.ErrorInternal
	}

	if err := repo.SetDocumentKey(ctx, toolID, key, s.now()); err != nil {
		return nil, s.lookupError(ctx, toolID, err)
	}

	tool, err := repo.Get(ctx, toolID)
	if err != nil {
		return nil, s.lookupError(ctx, toolID, err)
	}
	s.log.Info(ctx, "document attached", "tool_id", toolID, "key", key)
	return tool, nil
}

// DownloadURL presigns a GET for the tool's document. A tool without a
// document is reported as common.ErrorNotFound.
func (s *DocumentService) DownloadURL(ctx context.Context, toolID string) (string, error) {
	tool, err := s.repomanager.Tools(s.db).Get(ctx, toolID)
	if err != nil {
		return "", s.lookupError(ctx, toolID, err)
	}
	if tool.DocumentKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		s.log.Error(ctx, "object storage config failed", "error", err)
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := tool.DocumentKey

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignLifetime))
	if err != nil {
		s.log.Error(ctx, "presign get failed", "tool_id", toolID, "error", err)
		return "", common.ErrorInternal
	}

	return req.URL, nil
}

func (s *DocumentService) lookupError(ctx context.Context, toolID string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.log.Error(ctx, "tool lookup failed", "tool_id", toolID, "error", err)
	return common.ErrorInternal
}
