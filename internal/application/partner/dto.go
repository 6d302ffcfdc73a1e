package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search" binding:"omitempty,max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Email   string    `json:"email,omitempty"`
}

// ToBranchResponse converts a domain branch to a response
func ToBranchResponse(branch *partner.Branch) BranchResponse {
	return BranchResponse{
		ID:      branch.ID,
		Name:    branch.Name,
		Address: branch.Address,
		Phone:   branch.Phone,
		Email:   branch.Email,
	}
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	BranchID    uuid.UUID `json:"branch_id"`
	Status      string    `json:"status"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	IsDefault   bool      `json:"is_default"`
}

// ToShopResponse converts a domain shop to a response
func ToShopResponse(shop *partner.Shop) ShopResponse {
	return ShopResponse{
		ID:          shop.ID,
		Code:        shop.Code,
		Name:        shop.Name,
		BranchID:    shop.BranchID,
		Status:      string(shop.Status),
		ContactName: shop.ContactName,
		Phone:       shop.Phone,
		Address:     shop.Address,
		City:        shop.City,
		IsDefault:   shop.IsDefault,
	}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCustomerResponse converts a domain customer to a response
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
	}
}
