package partner

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Branch represents a company branch
// Shops belong to a branch; branch-level grouping drives sale and stock
// reporting
type Branch struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Address string `gorm:"type:text"`
	Phone   string `gorm:"type:varchar(50)"`
	Email   string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(name string) (*Branch, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot exceed 200 characters")
	}

	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// Update updates the branch's information
func (b *Branch) Update(name, address, phone, email string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}

	b.Name = name
	b.Address = address
	b.Phone = phone
	b.Email = email
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}
