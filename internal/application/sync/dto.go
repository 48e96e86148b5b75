package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/partnerbridge/backend/internal/domain/sync"
)

// UpsertPartnerRequest is the full partner payload. It drives both the REST
// upsert and the partner.sync RPC method; absent fields clear the stored
// values.
type UpsertPartnerRequest struct {
	ExternalID             string     `json:"external_id" binding:"required,min=1,max=120"`
	Name                   *string    `json:"name" binding:"omitempty,max=200"`
	Vat                    *string    `json:"vat" binding:"omitempty,max=50"`
	IdentificationTypeCode *string    `json:"identification_type_code" binding:"omitempty,max=20"`
	CompanyType            *string    `json:"company_type" binding:"omitempty,max=20"`
	ContactType            *string    `json:"contact_type" binding:"omitempty,max=20"`
	Email                  *string    `json:"email" binding:"omitempty,max=200"`
	Phone                  *string    `json:"phone" binding:"omitempty,max=50"`
	Street                 *string    `json:"street" binding:"omitempty,max=500"`
	City                   *string    `json:"city" binding:"omitempty,max=100"`
	CountryCode            *string    `json:"country_code" binding:"omitempty,len=2"`
	Score                  float64    `json:"score"`
	UpdatedAt              *time.Time `json:"updated_at"`
}

// Fields converts the request into domain field values.
func (r UpsertPartnerRequest) Fields() sync.Fields {
	return sync.Fields{
		Name:                   r.Name,
		Vat:                    r.Vat,
		IdentificationTypeCode: r.IdentificationTypeCode,
		CompanyType:            r.CompanyType,
		ContactType:            r.ContactType,
		Email:                  r.Email,
		Phone:                  r.Phone,
		Street:                 r.Street,
		City:                   r.City,
		CountryCode:            r.CountryCode,
		Score:                  r.Score,
		UpdatedAt:              r.UpdatedAt,
	}
}

// UpdatePartnerRequest is the sparse payload for partial updates. Only the
// fields present are touched; Score is optional here, unlike the upsert.
type UpdatePartnerRequest struct {
	Name                   *string    `json:"name" binding:"omitempty,max=200"`
	Vat                    *string    `json:"vat" binding:"omitempty,max=50"`
	IdentificationTypeCode *string    `json:"identification_type_code" binding:"omitempty,max=20"`
	CompanyType            *string    `json:"company_type" binding:"omitempty,max=20"`
	ContactType            *string    `json:"contact_type" binding:"omitempty,max=20"`
	Email                  *string    `json:"email" binding:"omitempty,max=200"`
	Phone                  *string    `json:"phone" binding:"omitempty,max=50"`
	Street                 *string    `json:"street" binding:"omitempty,max=500"`
	City                   *string    `json:"city" binding:"omitempty,max=100"`
	CountryCode            *string    `json:"country_code" binding:"omitempty,len=2"`
	Score                  *float64   `json:"score"`
	UpdatedAt              *time.Time `json:"updated_at"`
}

// PartialFields converts the request into domain partial field values.
func (r UpdatePartnerRequest) PartialFields() sync.PartialFields {
	return sync.PartialFields{
		Name:                   r.Name,
		Vat:                    r.Vat,
		IdentificationTypeCode: r.IdentificationTypeCode,
		CompanyType:            r.CompanyType,
		ContactType:            r.ContactType,
		Email:                  r.Email,
		Phone:                  r.Phone,
		Street:                 r.Street,
		City:                   r.City,
		CountryCode:            r.CountryCode,
		Score:                  r.Score,
		UpdatedAt:              r.UpdatedAt,
	}
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID                     uuid.UUID  `json:"id"`
	ExternalID             string     `json:"external_id"`
	Name                   *string    `json:"name"`
	Vat                    *string    `json:"vat"`
	IdentificationTypeCode *string    `json:"identification_type_code"`
	CompanyType            *string    `json:"company_type"`
	ContactType            *string    `json:"contact_type"`
	Email                  *string    `json:"email"`
	Phone                  *string    `json:"phone"`
	Street                 *string    `json:"street"`
	City                   *string    `json:"city"`
	CountryCode            *string    `json:"country_code"`
	Score                  float64    `json:"score"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// NewPartnerResponse converts a domain partner into its API representation.
func NewPartnerResponse(p *sync.Partner) *PartnerResponse {
	return &PartnerResponse{
		ID:                     p.ID,
		ExternalID:             p.ExternalID,
		Name:                   p.Name,
		Vat:                    p.Vat,
		IdentificationTypeCode: p.IdentificationTypeCode,
		CompanyType:            p.CompanyType,
		ContactType:            p.ContactType,
		Email:                  p.Email,
		Phone:                  p.Phone,
		Street:                 p.Street,
		City:                   p.City,
		CountryCode:            p.CountryCode,
		Score:                  p.Score,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
