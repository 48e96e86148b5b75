package sync

import (
	"time"

	"github.com/partnerbridge/backend/internal/domain/shared"
)

// Partner represents a business contact row in the external partner store.
// It is the aggregate root for partner synchronization operations.
//
// ExternalID is the reconciliation key: unique, assigned by the originating
// system (or synthesized, see SynthesizeExternalID) and never null after
// creation. UpdatedAt carries the last-write-wins timestamp used by the
// reconciliation rule; CreatedAt is set once and never touched again.
type Partner struct {
	shared.BaseEntity
	ExternalID             string
	Name                   *string
	Vat                    *string
	IdentificationTypeCode *string
	CompanyType            *string
	ContactType            *string
	Email                  *string
	Phone                  *string
	Street                 *string
	City                   *string
	CountryCode            *string
	Score                  float64
}

// Fields carries the partner attributes arriving from an external source.
// Nil pointers mean "absent"; UpdatedAt nil means the sender did not stamp
// the payload and the write time is authoritative.
type Fields struct {
	Name                   *string
	Vat                    *string
	IdentificationTypeCode *string
	CompanyType            *string
	ContactType            *string
	Email                  *string
	Phone                  *string
	Street                 *string
	City                   *string
	CountryCode            *string
	Score                  float64
	UpdatedAt              *time.Time
}

// NewPartner creates a partner from an incoming payload. Fields are
// normalized before they are stored so later comparisons are
// whitespace/case insensitive.
func NewPartner(externalID string, fields Fields) (*Partner, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}

	p := &Partner{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
	}
	p.Overwrite(fields.Normalize())
	return p, nil
}

// Overwrite replaces every attribute with the incoming value, including
// absent ones. This is the upsert semantic: the incoming payload is the
// full record, so a missing field clears the stored one.
func (p *Partner) Overwrite(f Fields) {
	p.Name = f.Name
	p.Vat = f.Vat
	p.IdentificationTypeCode = f.IdentificationTypeCode
	p.CompanyType = f.CompanyType
	p.ContactType = f.ContactType
	p.Email = f.Email
	p.Phone = f.Phone
	p.Street = f.Street
	p.City = f.City
	p.CountryCode = f.CountryCode
	p.Score = f.Score
	p.stampUpdatedAt(f.UpdatedAt)
}

// Patch applies only the attributes present in the partial payload.
// Absent fields keep their stored values.
func (p *Partner) Patch(f PartialFields) {
	if f.Name != nil {
		p.Name = NormalizeText(f.Name)
	}
	if f.Vat != nil {
		p.Vat = NormalizeText(f.Vat)
	}
	if f.IdentificationTypeCode != nil {
		p.IdentificationTypeCode = NormalizeText(f.IdentificationTypeCode)
	}
	if f.CompanyType != nil {
		p.CompanyType = NormalizeText(f.CompanyType)
	}
	if f.ContactType != nil {
		p.ContactType = NormalizeText(f.ContactType)
	}
	if f.Email != nil {
		p.Email = NormalizeEmail(f.Email)
	}
	if f.Phone != nil {
		p.Phone = NormalizeText(f.Phone)
	}
	if f.Street != nil {
		p.Street = NormalizeText(f.Street)
	}
	if f.City != nil {
		p.City = NormalizeText(f.City)
	}
	if f.CountryCode != nil {
		p.CountryCode = NormalizeText(f.CountryCode)
	}
	if f.Score != nil {
		p.Score = *f.Score
	}
	p.stampUpdatedAt(f.UpdatedAt)
}

// PartialFields is the sparse counterpart of Fields used by partial updates.
// Every attribute is optional, including Score.
type PartialFields struct {
	Name                   *string
	Vat                    *string
	IdentificationTypeCode *string
	CompanyType            *string
	ContactType            *string
	Email                  *string
	Phone                  *string
	Street                 *string
	City                   *string
	CountryCode            *string
	Score                  *float64
	UpdatedAt              *time.Time
}

// stampUpdatedAt sets the reconciliation timestamp to the incoming value,
// or to the write time when the sender did not provide one.
func (p *Partner) stampUpdatedAt(incoming *time.Time) {
	if incoming != nil {
		p.UpdatedAt = incoming.UTC()
		return
	}
	p.UpdatedAt = time.Now().UTC()
}
