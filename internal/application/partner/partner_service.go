package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
)

// PartnerService handles branch, shop and customer operations
type PartnerService struct {
	branchRepo   partner.BranchRepository
	shopRepo     partner.ShopRepository
	customerRepo partner.CustomerRepository
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(branchRepo partner.BranchRepository, shopRepo partner.ShopRepository, customerRepo partner.CustomerRepository) *PartnerService {
	return &PartnerService{
		branchRepo:   branchRepo,
		shopRepo:     shopRepo,
		customerRepo: customerRepo,
	}
}

// ListBranches returns all branches, name ascending
func (s *PartnerService) ListBranches(ctx context.Context) ([]BranchResponse, error) {
	branches, err := s.branchRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	responses := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		responses = append(responses, ToBranchResponse(&branches[i]))
	}
	return responses, nil
}

// GetBranch returns a single branch by ID
func (s *PartnerService) GetBranch(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToBranchResponse(branch)
	return &response, nil
}

// ListShops returns all active shops
func (s *PartnerService) ListShops(ctx context.Context) ([]ShopResponse, error) {
	shops, err := s.shopRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		responses = append(responses, ToShopResponse(&shops[i]))
	}
	return responses, nil
}

// GetShop returns a single shop by ID
func (s *PartnerService) GetShop(ctx context.Context, id uuid.UUID) (*ShopResponse, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToShopResponse(shop)
	return &response, nil
}

// ListCustomers returns customers, optionally matched by name or phone
func (s *PartnerService) ListCustomers(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.OrderBy = "name"
	f.OrderDir = "asc"

	var customers []partner.Customer
	var err error
	if filter.Search != "" {
		customers, err = s.customerRepo.Search(ctx, filter.Search, f)
	} else {
		customers, err = s.customerRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, nil
}

// CreateCustomer creates a new customer record
func (s *PartnerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Address != "" {
		if err := customer.Update(req.Name, req.Phone, req.Email, req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}
