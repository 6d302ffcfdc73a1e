package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ShopStatus represents the status of a shop
type ShopStatus string

const (
	ShopStatusActive   ShopStatus = "active"
	ShopStatusInactive ShopStatus = "inactive"
)

// Shop represents a retail location holding stock and fulfilling sales
// It belongs to a branch and is the aggregate root for shop-related
// operations
type Shop struct {
	shared.BaseAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string     `gorm:"type:varchar(200);not null"`
	BranchID    uuid.UUID  `gorm:"type:uuid;index"`
	Status      ShopStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string     `gorm:"type:varchar(100)"` // Shop manager/contact
	Phone       string     `gorm:"type:varchar(50);index"`
	Address     string     `gorm:"type:text"`
	City        string     `gorm:"type:varchar(100)"`
	IsDefault   bool       `gorm:"not null;default:false"` // Default shop for operations
	Notes       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shops"
}

// NewShop creates a new shop with required fields
func NewShop(code, name string) (*Shop, error) {
	if err := validateShopCode(code); err != nil {
		return nil, err
	}
	if err := validateShopName(name); err != nil {
		return nil, err
	}

	shop := &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            ShopStatusActive,
	}

	shop.AddDomainEvent(NewShopCreatedEvent(shop))

	return shop, nil
}

// Update updates the shop's basic information
func (s *Shop) Update(name, contactName, phone, address, city string) error {
	if err := validateShopName(name); err != nil {
		return err
	}

	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Address = address
	s.City = city
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// AssignBranch places the shop under a branch
func (s *Shop) AssignBranch(branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}

	s.BranchID = branchID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetDefault marks the shop as the default shop
func (s *Shop) SetDefault(isDefault bool) {
	s.IsDefault = isDefault
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate activates the shop
func (s *Shop) Activate() {
	s.Status = ShopStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate deactivates the shop
// An inactive shop cannot take new sales or deliveries
func (s *Shop) Deactivate() {
	s.Status = ShopStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive returns true if the shop is active
func (s *Shop) IsActive() bool {
	return s.Status == ShopStatusActive
}

func validateShopCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Shop code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Shop code cannot exceed 50 characters")
	}
	return nil
}

func validateShopName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Shop name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Shop name cannot exceed 200 characters")
	}
	return nil
}
