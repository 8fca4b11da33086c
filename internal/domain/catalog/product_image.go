package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// MaxImageSizeBytes bounds a single uploaded product image
const MaxImageSizeBytes = 10 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ProductImage is a picture of a product, optionally tied to one color.
// The bytes live in object storage under ObjectKey.
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID
	ColorID   *uuid.UUID
	ObjectKey string
	MimeType  string
	SizeBytes int64
	SortOrder int
}

// UploadedImage is one file received from a client
type UploadedImage struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ImageGroup binds a set of uploaded images to a color.
// A nil ColorID means the images are not color specific.
type ImageGroup struct {
	ColorID *uuid.UUID
	Images  []UploadedImage
}

// Validate checks the file name, MIME type and size of an upload
func (u UploadedImage) Validate() error {
	if len(u.Data) == 0 {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Image %s is empty", u.FileName))
	}
	if len(u.Data) > MaxImageSizeBytes {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Image %s exceeds %dMB", u.FileName, MaxImageSizeBytes/1024/1024))
	}
	ext := strings.ToLower(path.Ext(u.FileName))
	if !allowedImageExtensions[ext] {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Image %s has an unsupported file type", u.FileName))
	}
	if !strings.HasPrefix(u.ContentType, "image/") {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("File %s is not an image", u.FileName))
	}
	return nil
}

// NewProductImage creates the metadata record for an uploaded image
func NewProductImage(productID uuid.UUID, colorID *uuid.UUID, upload UploadedImage, sortOrder int) (*ProductImage, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}
	img := &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		ColorID:    colorID,
		MimeType:   upload.ContentType,
		SizeBytes:  int64(len(upload.Data)),
		SortOrder:  sortOrder,
	}
	img.ObjectKey = ImageObjectKey(productID, img.ID, upload.FileName)
	return img, nil
}

// ImageObjectKey builds the storage key for a product image
func ImageObjectKey(productID, imageID uuid.UUID, fileName string) string {
	return fmt.Sprintf("products/%s/%s%s", productID, imageID, strings.ToLower(path.Ext(fileName)))
}
