package models

import (
	"github.com/partnerbridge/backend/internal/domain/sync"
)

// PartnerModel is the persistence model for synchronized partner records.
// Text attributes are nullable pointers because an upsert may legitimately
// clear any of them.
type PartnerModel struct {
	BaseModel
	ExternalID             string  `gorm:"type:varchar(120);not null;uniqueIndex"`
	Name                   *string `gorm:"type:varchar(200)"`
	Vat                    *string `gorm:"type:varchar(50);index"`
	IdentificationTypeCode *string `gorm:"type:varchar(20)"`
	CompanyType            *string `gorm:"type:varchar(20)"`
	ContactType            *string `gorm:"type:varchar(20)"`
	Email                  *string `gorm:"type:varchar(200)"`
	Phone                  *string `gorm:"type:varchar(50)"`
	Street                 *string `gorm:"type:text"`
	City                   *string `gorm:"type:varchar(100)"`
	CountryCode            *string `gorm:"type:varchar(2)"`
	Score                  float64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *sync.Partner {
	return &sync.Partner{
		BaseEntity:             m.BaseModel.ToDomain(),
		ExternalID:             m.ExternalID,
		Name:                   m.Name,
		Vat:                    m.Vat,
		IdentificationTypeCode: m.IdentificationTypeCode,
		CompanyType:            m.CompanyType,
		ContactType:            m.ContactType,
		Email:                  m.Email,
		Phone:                  m.Phone,
		Street:                 m.Street,
		City:                   m.City,
		CountryCode:            m.CountryCode,
		Score:                  m.Score,
	}
}

// FromDomain populates the model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *sync.Partner) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ExternalID = p.ExternalID
	m.Name = p.Name
	m.Vat = p.Vat
	m.IdentificationTypeCode = p.IdentificationTypeCode
	m.CompanyType = p.CompanyType
	m.ContactType = p.ContactType
	m.Email = p.Email
	m.Phone = p.Phone
	m.Street = p.Street
	m.City = p.City
	m.CountryCode = p.CountryCode
	m.Score = p.Score
}
