package partner

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const minPasswordLength = 8

var errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// CustomerService handles customer accounts for the storefront and the admin
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	addressRepo    partner.AddressRepository
	membershipRepo partner.MembershipRepository
	hasher         shared.PasswordHasher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	addressRepo partner.AddressRepository,
	membershipRepo partner.MembershipRepository,
	hasher shared.PasswordHasher,
	logger *zap.Logger,
) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo:   customerRepo,
		addressRepo:    addressRepo,
		membershipRepo: membershipRepo,
		hasher:         hasher,
		logger:         logger,
	}
}

// Register creates a storefront account
func (s *CustomerService) Register(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	c, err := partner.NewCustomer(partner.CustomerProfile{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthYear: req.BirthYear,
	}, hash)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, c.Email, nil); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Customer registered", zap.String("customer_id", c.ID.String()))
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Authenticate verifies storefront credentials
func (s *CustomerService) Authenticate(ctx context.Context, req LoginCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByEmail(ctx, partner.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if c.PasswordHash == "" || s.hasher.Compare(c.PasswordHash, req.Password) != nil {
		s.logger.Warn("Customer sign-in failed", zap.String("customer_id", c.ID.String()))
		return nil, errInvalidCredentials
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID returns a customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetDetail returns a customer with order statistics and saved addresses
func (s *CustomerService) GetDetail(ctx context.Context, id uuid.UUID) (*CustomerDetailResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.customerRepo.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addressRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CustomerDetailResponse{
		CustomerResponse: ToCustomerResponse(c),
		OrderCount:       stats.OrderCount,
		TotalSpent:       stats.TotalSpent,
		LastOrderDate:    stats.LastOrderDate,
		Addresses:        ToAddressResponses(addresses),
	}, nil
}

// List searches customers by name, email or phone
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	f := partner.CustomerFilter{
		Filter:       pageFilter(filter.Search, filter.Page, filter.PageSize),
		MembershipID: filter.MembershipID,
	}
	customers, total, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i]))
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Create creates a customer on behalf of staff
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	if err := s.checkMembership(ctx, req.MembershipID); err != nil {
		return nil, err
	}
	hash := ""
	if req.Password != "" {
		var err error
		if hash, err = s.hasher.Hash(req.Password); err != nil {
			return nil, err
		}
	}
	c, err := partner.NewCustomer(req.profile(), hash)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, c.Email, nil); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Update edits a customer's profile and, optionally, password
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkMembership(ctx, req.MembershipID); err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(req.profile()); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, c.Email, &id); err != nil {
		return nil, err
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		c.SetPasswordHash(hash)
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// UpdateProfile lets a signed-in customer edit their own profile. The
// membership tier is kept.
func (s *CustomerService) UpdateProfile(ctx context.Context, customerID uuid.UUID, req ProfileRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(partner.CustomerProfile{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		BirthYear:    req.BirthYear,
		MembershipID: c.MembershipID,
	}); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, c.Email, &customerID); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// ChangePassword replaces a signed-in customer's password after checking
// the current one
func (s *CustomerService) ChangePassword(ctx context.Context, customerID uuid.UUID, req ChangePasswordRequest) error {
	if utf8.RuneCountInString(req.NewPassword) < minPasswordLength {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("New password must be at least %d characters", minPasswordLength))
	}
	if req.NewPassword != req.ConfirmPassword {
		return shared.NewDomainError("INVALID_INPUT", "Password confirmation does not match")
	}
	if req.NewPassword == req.CurrentPassword {
		return shared.NewDomainError("INVALID_INPUT", "New password must differ from the current one")
	}
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c.PasswordHash == "" || s.hasher.Compare(c.PasswordHash, req.CurrentPassword) != nil {
		s.logger.Warn("Customer password change rejected", zap.String("customer_id", c.ID.String()))
		return shared.NewDomainError("INVALID_INPUT", "Current password is incorrect")
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	c.SetPasswordHash(hash)
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return err
	}
	s.logger.Info("Customer password changed", zap.String("customer_id", c.ID.String()))
	return nil
}

// Delete removes a customer without orders
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	hasOrders, err := s.customerRepo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		return shared.NewDomainError("HAS_REFERENCES", "Cannot delete a customer who has orders")
	}
	return s.customerRepo.Delete(ctx, id)
}

// Report summarizes customer spend per membership tier
func (s *CustomerService) Report(ctx context.Context) (*CustomerReportResponse, error) {
	total, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.customerRepo.SpendByMembership(ctx)
	if err != nil {
		return nil, err
	}
	report := &CustomerReportResponse{
		TotalCustomers: total,
		TotalSpent:     decimal.Zero,
		ByMembership:   make([]MembershipSpendResponse, 0, len(rows)),
	}
	for _, r := range rows {
		name := r.MembershipName
		if r.MembershipID == nil {
			name = "No membership"
		}
		report.TotalSpent = report.TotalSpent.Add(r.TotalSpent)
		report.ByMembership = append(report.ByMembership, MembershipSpendResponse{
			MembershipID:   r.MembershipID,
			MembershipName: name,
			CustomerCount:  r.CustomerCount,
			OrderCount:     r.OrderCount,
			TotalSpent:     r.TotalSpent,
		})
	}
	return report, nil
}

// ListAddresses returns a customer's saved shipping addresses
func (s *CustomerService) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToAddressResponses(addresses), nil
}

// AddAddress saves a new shipping address for a customer
func (s *CustomerService) AddAddress(ctx context.Context, customerID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	a, err := partner.NewShippingAddress(customerID, req.ToInput())
	if err != nil {
		return nil, err
	}
	if err := s.addressRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(a)
	return &resp, nil
}

func (s *CustomerService) ensureUniqueEmail(ctx context.Context, email string, excludeID *uuid.UUID) error {
	exists, err := s.customerRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
	}
	return nil
}

func (s *CustomerService) checkMembership(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.membershipRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_INPUT", "Membership not found")
		}
		return err
	}
	return nil
}
