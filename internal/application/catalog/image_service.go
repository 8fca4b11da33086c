package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImageStorage stores image bytes. Implemented by the infrastructure layer
// (S3-compatible storage or in memory).
type ImageStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	Download(ctx context.Context, storageKey string) ([]byte, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// ImageContent is the raw bytes of a stored image with its MIME type
type ImageContent struct {
	Data     []byte
	MimeType string
}

// ImageService manages product images
type ImageService struct {
	productRepo catalog.ProductRepository
	colorRepo   catalog.ColorRepository
	imageRepo   catalog.ProductImageRepository
	storage     ImageStorage
	logger      *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(
	productRepo catalog.ProductRepository,
	colorRepo catalog.ColorRepository,
	imageRepo catalog.ProductImageRepository,
	storage ImageStorage,
	logger *zap.Logger,
) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		productRepo: productRepo,
		colorRepo:   colorRepo,
		imageRepo:   imageRepo,
		storage:     storage,
		logger:      logger,
	}
}

// Upload stores every image of every group and records its metadata.
// All uploads are validated before any byte is stored.
func (s *ImageService) Upload(ctx context.Context, productID uuid.UUID, groups []catalog.ImageGroup) ([]ProductImageResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	count := 0
	for _, g := range groups {
		if g.ColorID != nil {
			if _, err := s.colorRepo.FindByID(ctx, *g.ColorID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Color %s not found", g.ColorID))
				}
				return nil, err
			}
		}
		for _, img := range g.Images {
			if err := img.Validate(); err != nil {
				return nil, err
			}
			count++
		}
	}
	if count == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please choose at least one image")
	}

	sortOrder, err := s.imageRepo.NextSortOrder(ctx, productID)
	if err != nil {
		return nil, err
	}

	saved := make([]ProductImageResponse, 0, count)
	for _, g := range groups {
		for _, upload := range g.Images {
			img, err := catalog.NewProductImage(productID, g.ColorID, upload, sortOrder)
			if err != nil {
				return saved, err
			}
			if err := s.storage.Upload(ctx, img.ObjectKey, upload.Data, img.MimeType); err != nil {
				return saved, fmt.Errorf("failed to store image %s: %w", upload.FileName, err)
			}
			if err := s.imageRepo.Save(ctx, img); err != nil {
				s.removeObject(ctx, img.ObjectKey)
				return saved, err
			}
			saved = append(saved, ToProductImageResponse(img))
			sortOrder++
		}
	}

	s.logger.Info("Product images uploaded",
		zap.String("product_id", productID.String()),
		zap.Int("count", len(saved)))
	return saved, nil
}

// Delete removes an image record and its stored bytes
func (s *ImageService) Delete(ctx context.Context, imageID uuid.UUID) error {
	img, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return err
	}
	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return err
	}
	s.removeObject(ctx, img.ObjectKey)
	return nil
}

// ListByColor lists a product's images for one color
func (s *ImageService) ListByColor(ctx context.Context, productID, colorID uuid.UUID) ([]ProductImageResponse, error) {
	images, err := s.imageRepo.FindByProductAndColor(ctx, productID, colorID)
	if err != nil {
		return nil, err
	}
	out := make([]ProductImageResponse, 0, len(images))
	for i := range images {
		out = append(out, ToProductImageResponse(&images[i]))
	}
	return out, nil
}

// Open returns an image's bytes and MIME type
func (s *ImageService) Open(ctx context.Context, imageID uuid.UUID) (*ImageContent, error) {
	img, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, img.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", imageID, err)
	}
	return &ImageContent{Data: data, MimeType: img.MimeType}, nil
}

func (s *ImageService) removeObject(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete image object", zap.String("object_key", key), zap.Error(err))
	}
}
