package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/repositories"

	"github.com/google/uuid"
)

// MaxImageSize bounds an uploaded item image.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageUpload is one file received for an item.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ItemService interface {
	Create(ctx context.Context, db repositories.Database, item *models.Item) error
	GetByCode(ctx context.Context, db repositories.Database, code string) (*models.Item, error)
	Update(ctx context.Context, db repositories.Database, item *models.Item) error
	Delete(ctx context.Context, db repositories.Database, code string) error
	List(ctx context.Context, db repositories.Database) ([]*models.Item, error)
	UploadImage(ctx context.Context, t *TenantHandle, code string, upload *ImageUpload) (*models.Item, error)
}

type itemService struct {
	newRepo func(repositories.Database) repositories.ItemRepository
	images  MinioService
	logger  *slog.Logger
}

// NewItemService builds the item service. images may be nil, in which case
// uploads fail with ErrStorageUnavailable.
func NewItemService(images MinioService, logger *slog.Logger) ItemService {
	return &itemService{
		newRepo: repositories.NewItemRepo,
		images:  images,
		logger:  logger,
	}
}

func validateItem(item *models.Item) error {
	item.Code = strings.TrimSpace(item.Code)
	if err := common.ValidateRequiredString(item.Code, "code"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(item.Description, "description"); err != nil {
		return err
	}
	if item.UnitPrice < 0 {
		return common.NewValidationError("unitPrice cannot be negative")
	}
	if item.MinStockLevel < 0 {
		return common.NewValidationError("minStockLevel cannot be negative")
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, db repositories.Database, item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.newRepo(db).Create(ctx, item); err != nil {
		return err
	}
	item.Active = true
	return nil
}

func (s *itemService) GetByCode(ctx context.Context, db repositories.Database, code string) (*models.Item, error) {
	return s.newRepo(db).GetByCode(ctx, code)
}

func (s *itemService) Update(ctx context.Context, db repositories.Database, item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	return s.newRepo(db).Update(ctx, item)
}

func (s *itemService) Delete(ctx context.Context, db repositories.Database, code string) error {
	return s.newRepo(db).Deactivate(ctx, code)
}

func (s *itemService) List(ctx context.Context, db repositories.Database) ([]*models.Item, error) {
	return s.newRepo(db).ListActive(ctx)
}

// UploadImage stores the file under <tenant-db>/items/<code>/<uuid><ext>
// and records its URL on the item. The object is removed again when the
// item row cannot be updated.
func (s *itemService) UploadImage(ctx context.Context, t *TenantHandle, code string, upload *ImageUpload) (*models.Item, error) {
	if s.images == nil {
		return nil, common.ErrStorageUnavailable
	}
	ext, err := imageExtension(upload)
	if err != nil {
		return nil, err
	}

	repo := s.newRepo(t.DB)
	item, err := repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/items/%s/%s%s", t.Name, item.Code, uuid.NewString(), ext)
	url, err := s.images.UploadImage(ctx, objectName, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}

	if err := repo.SetImageURL(ctx, item.Code, url); err != nil {
		if delErr := s.images.DeleteImage(ctx, objectName); delErr != nil {
			s.logger.Warn("orphaned item image", slog.String("object", objectName), slog.String("error", delErr.Error()))
		}
		return nil, err
	}
	item.ImageURL = &url
	return item, nil
}

func imageExtension(upload *ImageUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", common.NewValidationError("image file is required")
	}
	if upload.Size <= 0 {
		return "", common.NewValidationError("image file is empty")
	}
	if upload.Size > MaxImageSize {
		return "", common.NewValidationError("image cannot exceed %d bytes", MaxImageSize)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", common.NewValidationError("unsupported image type %q", upload.ContentType)
	}
	if named := strings.ToLower(filepath.Ext(upload.Filename)); named == ext || (named == ".jpeg" && ext == ".jpg") {
		return named, nil
	}
	return ext, nil
}
