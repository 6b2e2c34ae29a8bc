package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/infrastructure/dynamo"
	s3infra "github.com/aqarmatch/api/internal/infrastructure/s3"
	"github.com/aqarmatch/api/internal/pkg/id"
)

const presignTTL = 15 * time.Minute

// UploadInput describes an attachment upload for an offer (deed scan,
// photo, brochure).
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	OfferID     string
	UploaderID  string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.File, error)
	ListByOffer(ctx context.Context, offerID string) ([]domain.File, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.File, error)
	Delete(ctx context.Context, fileID, actorID, actorRole string) error
}

type offerStore interface {
	Get(ctx context.Context, offerID string) (*domain.Offer, error)
}

type service struct {
	s3        *s3infra.Store
	fileRepo  *dynamo.FileRepo
	offerRepo offerStore
}

func NewService(s3 *s3infra.Store, fileRepo *dynamo.FileRepo, offerRepo offerStore) Service {
	return &service{s3: s3, fileRepo: fileRepo, offerRepo: offerRepo}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.File, error) {
	if _, err := s.offerRepo.Get(ctx, input.OfferID); err != nil {
		return nil, fmt.Errorf("offer not found: %w", domain.ErrNotFound)
	}
	safeName := sanitizeFilename(input.Filename)
	key := fmt.Sprintf("offers/%s/%s", input.OfferID, safeName)
	if _, err := s.s3.Upload(ctx, key, input.Reader, input.ContentType); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	f := &domain.File{
		FileID:           id.New(),
		Object:           key,
		Size:             input.Size,
		Type:             input.ContentType,
		Name:             safeName,
		OfferID:          input.OfferID,
		UploadedByUserID: input.UploaderID,
		Enable:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.fileRepo.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListByOffer returns an offer's attachments, each with a short-lived
// presigned GET URL. A presign failure leaves the URL empty.
func (s *service) ListByOffer(ctx context.Context, offerID string) ([]domain.File, error) {
	files, err := s.fileRepo.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if url, err := s.s3.PresignedURL(ctx, files[i].Object, presignTTL); err == nil {
			files[i].URL = &url
		}
	}
	return files, nil
}

func (s *service) Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.File, error) {
	f, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if !f.Enable {
		return nil, nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	rc, err := s.s3.Download(ctx, f.Object)
	if err != nil {
		return nil, nil, err
	}
	return rc, f, nil
}

func (s *service) Delete(ctx context.Context, fileID, actorID, actorRole string) error {
	f, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if !f.Enable {
		return fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	if f.UploadedByUserID != actorID && actorRole != domain.RoleAdmin && actorRole != domain.RoleManager {
		return fmt.Errorf("access denied: %w", domain.ErrForbidden)
	}
	if err := s.s3.Delete(ctx, f.Object); err != nil {
		return err
	}
	return s.fileRepo.SoftDelete(ctx, fileID)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
