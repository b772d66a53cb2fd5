package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// OwnerModel is the persistence model for the Owner aggregate root.
type OwnerModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(50);index"`
	Email    string `gorm:"type:varchar(200)"`
	CNIC     string `gorm:"type:varchar(30);index"`
	Address  string `gorm:"type:text"`
	IsActive bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the persistence model to a domain Owner entity.
func (m *OwnerModel) ToDomain() *property.Owner {
	return &property.Owner{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Phone:             m.Phone,
		Email:             m.Email,
		CNIC:              m.CNIC,
		Address:           m.Address,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Owner entity.
func (m *OwnerModel) FromDomain(o *property.Owner) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Phone = o.Phone
	m.Email = o.Email
	m.CNIC = o.CNIC
	m.Address = o.Address
	m.IsActive = o.IsActive
}

// OwnerModelFromDomain creates a new persistence model from a domain Owner entity.
func OwnerModelFromDomain(o *property.Owner) *OwnerModel {
	m := &OwnerModel{}
	m.FromDomain(o)
	return m
}

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(50);index"`
	Email    string `gorm:"type:varchar(200)"`
	CNIC     string `gorm:"type:varchar(30);index"`
	IsActive bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *property.Tenant {
	return &property.Tenant{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Phone:             m.Phone,
		Email:             m.Email,
		CNIC:              m.CNIC,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *property.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Phone = t.Phone
	m.Email = t.Email
	m.CNIC = t.CNIC
	m.IsActive = t.IsActive
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *property.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// ApartmentModel is the persistence model for the Apartment aggregate root.
type ApartmentModel struct {
	AggregateModel
	Number   string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_apartment_building_number,priority:2"`
	Floor    string     `gorm:"type:varchar(20)"`
	Building string     `gorm:"type:varchar(100);uniqueIndex:idx_apartment_building_number,priority:1"`
	OwnerID  *uuid.UUID `gorm:"type:uuid;index"`
	IsActive bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ApartmentModel) TableName() string {
	return "apartments"
}

// ToDomain converts the persistence model to a domain Apartment entity.
func (m *ApartmentModel) ToDomain() *property.Apartment {
	return &property.Apartment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		Floor:             m.Floor,
		Building:          m.Building,
		OwnerID:           m.OwnerID,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Apartment entity.
func (m *ApartmentModel) FromDomain(a *property.Apartment) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Number = a.Number
	m.Floor = a.Floor
	m.Building = a.Building
	m.OwnerID = a.OwnerID
	m.IsActive = a.IsActive
}

// ApartmentModelFromDomain creates a new persistence model from a domain Apartment entity.
func ApartmentModelFromDomain(a *property.Apartment) *ApartmentModel {
	m := &ApartmentModel{}
	m.FromDomain(a)
	return m
}

// ContractModel is the persistence model for the Contract aggregate root.
// Total columns cache the sum of the active charge rows.
type ContractModel struct {
	AggregateModel
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartDate           time.Time       `gorm:"not null"`
	EndDate             *time.Time
	TotalRent           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalServiceCharges decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalSecurityFees   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SecurityFeeApplied  bool            `gorm:"not null;default:false"`
	IsActive            bool            `gorm:"not null;default:true;index"`
	Notes               string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract entity.
func (m *ContractModel) ToDomain() *property.Contract {
	return &property.Contract{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		TenantID:            m.TenantID,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		TotalRent:           m.TotalRent,
		TotalServiceCharges: m.TotalServiceCharges,
		TotalSecurityFees:   m.TotalSecurityFees,
		SecurityFeeApplied:  m.SecurityFeeApplied,
		IsActive:            m.IsActive,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Contract entity.
func (m *ContractModel) FromDomain(c *property.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.TenantID = c.TenantID
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.TotalRent = c.TotalRent
	m.TotalServiceCharges = c.TotalServiceCharges
	m.TotalSecurityFees = c.TotalSecurityFees
	m.SecurityFeeApplied = c.SecurityFeeApplied
	m.IsActive = c.IsActive
	m.Notes = c.Notes
}

// ContractModelFromDomain creates a new persistence model from a domain Contract entity.
func ContractModelFromDomain(c *property.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// ApartmentChargeModel is the persistence model for the ApartmentCharge entity.
type ApartmentChargeModel struct {
	BaseModel
	ContractID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ApartmentID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Rent           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ServiceCharges decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SecurityFees   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ApartmentChargeModel) TableName() string {
	return "apartment_charges"
}

// ToDomain converts the persistence model to a domain ApartmentCharge entity.
func (m *ApartmentChargeModel) ToDomain() *property.ApartmentCharge {
	return &property.ApartmentCharge{
		BaseEntity:     m.BaseModel.ToDomain(),
		ContractID:     m.ContractID,
		ApartmentID:    m.ApartmentID,
		Rent:           m.Rent,
		ServiceCharges: m.ServiceCharges,
		SecurityFees:   m.SecurityFees,
		IsActive:       m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain ApartmentCharge entity.
func (m *ApartmentChargeModel) FromDomain(c *property.ApartmentCharge) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ContractID = c.ContractID
	m.ApartmentID = c.ApartmentID
	m.Rent = c.Rent
	m.ServiceCharges = c.ServiceCharges
	m.SecurityFees = c.SecurityFees
	m.IsActive = c.IsActive
}

// ApartmentChargeModelFromDomain creates a new persistence model from a domain ApartmentCharge entity.
func ApartmentChargeModelFromDomain(c *property.ApartmentCharge) *ApartmentChargeModel {
	m := &ApartmentChargeModel{}
	m.FromDomain(c)
	return m
}

// ContractLinkModel is the persistence model for the ContractLink entity.
type ContractLinkModel struct {
	BaseModel
	ContractID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ApartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive    bool      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ContractLinkModel) TableName() string {
	return "contract_links"
}

// ToDomain converts the persistence model to a domain ContractLink entity.
func (m *ContractLinkModel) ToDomain() *property.ContractLink {
	return &property.ContractLink{
		BaseEntity:  m.BaseModel.ToDomain(),
		ContractID:  m.ContractID,
		TenantID:    m.TenantID,
		ApartmentID: m.ApartmentID,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain ContractLink entity.
func (m *ContractLinkModel) FromDomain(l *property.ContractLink) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.ContractID = l.ContractID
	m.TenantID = l.TenantID
	m.ApartmentID = l.ApartmentID
	m.IsActive = l.IsActive
}

// ContractLinkModelFromDomain creates a new persistence model from a domain ContractLink entity.
func ContractLinkModelFromDomain(l *property.ContractLink) *ContractLinkModel {
	m := &ContractLinkModel{}
	m.FromDomain(l)
	return m
}
