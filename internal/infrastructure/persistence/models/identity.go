package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
)

// AdminModel is the persistence model for back-office accounts
type AdminModel struct {
	AggregateModel
	FullName     string     `gorm:"type:varchar(100);not null"`
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	BirthDate    *time.Time `gorm:"type:date"`
	NationalID   string     `gorm:"type:varchar(20)"`
	IsApproved   bool       `gorm:"not null;default:false"`
	IsBlocked    bool       `gorm:"not null;default:false"`
	RoleID       *uuid.UUID `gorm:"type:uuid;index"`
	Role         *RoleModel `gorm:"foreignKey:RoleID"`
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// ToDomain converts the persistence model to a domain Admin, with the role
// when it was preloaded
func (m *AdminModel) ToDomain() *identity.Admin {
	a := &identity.Admin{
		BaseAggregateRoot: m.Aggregate(),
		FullName:          m.FullName,
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		BirthDate:         m.BirthDate,
		NationalID:        m.NationalID,
		IsApproved:        m.IsApproved,
		IsBlocked:         m.IsBlocked,
		RoleID:            m.RoleID,
	}
	if m.Role != nil {
		a.Role = m.Role.ToDomain()
	}
	return a
}

// FromDomain populates the persistence model from a domain Admin.
// The role association is not written.
func (m *AdminModel) FromDomain(a *identity.Admin) {
	m.SetAggregate(a.BaseAggregateRoot)
	m.FullName = a.FullName
	m.Username = a.Username
	m.PasswordHash = a.PasswordHash
	m.BirthDate = a.BirthDate
	m.NationalID = a.NationalID
	m.IsApproved = a.IsApproved
	m.IsBlocked = a.IsBlocked
	m.RoleID = a.RoleID
}

// RoleModel is the persistence model for roles
type RoleModel struct {
	AggregateModel
	Name        string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string            `gorm:"type:varchar(255)"`
	IsSystem    bool              `gorm:"not null;default:false"`
	Permissions []PermissionModel `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role
func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		BaseAggregateRoot: m.Aggregate(),
		Name:              m.Name,
		Description:       m.Description,
		IsSystem:          m.IsSystem,
		Permissions:       make([]identity.Permission, 0, len(m.Permissions)),
	}
	for i := range m.Permissions {
		r.Permissions = append(r.Permissions, *m.Permissions[i].ToDomain())
	}
	return r
}

// FromDomain populates the persistence model from a domain Role.
// Permission links are replaced separately by the repository.
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.SetAggregate(r.BaseAggregateRoot)
	m.Name = r.Name
	m.Description = r.Description
	m.IsSystem = r.IsSystem
}

// PermissionModel is the persistence model for permissions
type PermissionModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(255)"`
	Area        string `gorm:"type:varchar(50);not null;index"`
	Action      string `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (PermissionModel) TableName() string {
	return "permissions"
}

// ToDomain converts the persistence model to a domain Permission
func (m *PermissionModel) ToDomain() *identity.Permission {
	return &identity.Permission{
		BaseEntity:  m.Entity(),
		Name:        m.Name,
		Description: m.Description,
		Area:        m.Area,
		Action:      m.Action,
	}
}

// FromDomain populates the persistence model from a domain Permission
func (m *PermissionModel) FromDomain(p *identity.Permission) {
	m.SetEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Area = p.Area
	m.Action = p.Action
}

// RolePermissionModel is the join row between roles and permissions
type RolePermissionModel struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// All returns every model in dependency order for AutoMigrate
func All() []any {
	return []any{
		&CategoryModel{},
		&ColorModel{},
		&DiscountModel{},
		&ProductModel{},
		&ProductImageModel{},
		&MembershipModel{},
		&CustomerModel{},
		&ShippingAddressModel{},
		&CouponModel{},
		&OrderModel{},
		&OrderDetailModel{},
		&WarrantyModel{},
		&ClaimModel{},
		&PermissionModel{},
		&RoleModel{},
		&RolePermissionModel{},
		&AdminModel{},
	}
}
