package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product catalog operations for the storefront and
// the back office
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	discountRepo   catalog.DiscountRepository
	imageRepo      catalog.ProductImageRepository
	storage        ImageStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	discountRepo catalog.DiscountRepository,
	imageRepo catalog.ProductImageRepository,
	storage ImageStorage,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		discountRepo: discountRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListPublished lists products visible on the storefront
func (s *ProductService) ListPublished(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := toProductFilter(filter)
	f.PublishedOnly = true
	f.Published = nil
	return s.list(ctx, f)
}

// List lists products for the back office, published or not
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	return s.list(ctx, toProductFilter(filter))
}

func (s *ProductService) list(ctx context.Context, f catalog.ProductFilter) (*shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, f.Page, f.PageSize)
	return &page, nil
}

// GetPublished returns a product only when it is visible on the storefront
func (s *ProductService) GetPublished(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetByID returns a product with its images
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	refs, err := s.checkReferences(ctx, req)
	if err != nil {
		return nil, err
	}
	p, err := catalog.NewProduct(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)
	refs.apply(p)
	resp := ToProductResponse(p)
	return &resp, nil
}

// Update replaces a product's attributes. A request carrying the version it
// was edited from is refused once the product has moved past it.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != p.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	refs, err := s.checkReferences(ctx, req)
	if err != nil {
		return nil, err
	}
	loadedVersion := p.Version
	if err := p.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, p, loadedVersion); err != nil {
		return nil, err
	}
	refs.apply(p)
	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product that has never been ordered, with its images
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	ordered, err := s.productRepo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		return shared.NewDomainError("HAS_REFERENCES", "Cannot delete a product that appears in orders; unpublish it instead")
	}
	images, err := s.imageRepo.FindByProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range images {
		if err := s.storage.DeleteObject(ctx, img.ObjectKey); err != nil {
			s.logger.Warn("Failed to delete product image object",
				zap.String("object_key", img.ObjectKey), zap.Error(err))
		}
	}
	return nil
}

// Publish makes a product visible on the storefront
func (s *ProductService) Publish(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changePublication(ctx, id, (*catalog.Product).Publish)
}

// Unpublish hides a product from the storefront
func (s *ProductService) Unpublish(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changePublication(ctx, id, (*catalog.Product).Unpublish)
}

// TogglePublish flips a product's publication flag
func (s *ProductService) TogglePublish(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changePublication(ctx, id, (*catalog.Product).TogglePublish)
}

func (s *ProductService) changePublication(ctx context.Context, id uuid.UUID, change func(*catalog.Product)) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loadedVersion := p.Version
	change(p)
	if err := s.productRepo.SaveWithLock(ctx, p, loadedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)
	resp := ToProductResponse(p)
	return &resp, nil
}

// ListLowStock returns products at or below the restock threshold
func (s *ProductService) ListLowStock(ctx context.Context, limit int) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, catalog.LowStockThreshold, limit)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

type productRefs struct {
	category *catalog.Category
	discount *catalog.DiscountProgram
}

func (r productRefs) apply(p *catalog.Product) {
	p.CategoryName = r.category.Name
	p.DiscountPercent = 0
	if r.discount != nil {
		p.DiscountPercent = r.discount.Percent
	}
}

func (s *ProductService) checkReferences(ctx context.Context, req ProductRequest) (productRefs, error) {
	var refs productRefs
	category, err := s.categoryRepo.FindByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return refs, shared.NewDomainError("INVALID_INPUT", "Category not found")
		}
		return refs, err
	}
	refs.category = category
	if req.DiscountID != nil {
		discount, err := s.discountRepo.FindByID(ctx, *req.DiscountID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return refs, shared.NewDomainError("INVALID_INPUT", "Discount program not found")
			}
			return refs, err
		}
		refs.discount = discount
	}
	return refs, nil
}

func (s *ProductService) publishEvents(ctx context.Context, p *catalog.Product) {
	events := p.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events", zap.String("product_id", p.ID.String()), zap.Error(err))
	}
}

func toProductFilter(filter ProductListFilter) catalog.ProductFilter {
	f := shared.DefaultFilter()
	f.Page = filter.Page
	f.PageSize = filter.PageSize
	f.Search = catalog.FoldSearchText(filter.Search)
	if filter.SortBy != "" {
		f.OrderBy = filter.SortBy
		f.OrderDir = "asc"
		if filter.SortDesc {
			f.OrderDir = "desc"
		}
	}
	return catalog.ProductFilter{
		Filter:     f.Normalize(),
		CategoryID: filter.CategoryID,
		ColorID:    filter.ColorID,
		Published:  filter.Published,
	}
}
