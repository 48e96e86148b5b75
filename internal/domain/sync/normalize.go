package sync

import "strings"

// NormalizeText trims the value and collapses internal whitespace runs to
// single spaces. An all-whitespace input maps to absent (nil), never to an
// empty string.
func NormalizeText(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := strings.Join(strings.Fields(*value), " ")
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// NormalizeEmail trims and lowercases the value. An empty result maps to
// absent, matching NormalizeText.
func NormalizeEmail(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := strings.ToLower(strings.TrimSpace(*value))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// Normalize returns a copy of the fields with every free-text attribute
// canonicalized. Applied before persistence and before comparison on both
// sides of the sync, so stored and compared values are always in the same
// form.
func (f Fields) Normalize() Fields {
	f.Name = NormalizeText(f.Name)
	f.Vat = NormalizeText(f.Vat)
	f.IdentificationTypeCode = NormalizeText(f.IdentificationTypeCode)
	f.CompanyType = NormalizeText(f.CompanyType)
	f.ContactType = NormalizeText(f.ContactType)
	f.Email = NormalizeEmail(f.Email)
	f.Phone = NormalizeText(f.Phone)
	f.Street = NormalizeText(f.Street)
	f.City = NormalizeText(f.City)
	f.CountryCode = NormalizeText(f.CountryCode)
	return f
}
