package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding space and converts s to NFC so that the
// same visible name is always stored with the same bytes.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeClient normalizes every text field of c.
func NormalizeClient(c Client) Client {
	c.Name = NormalizeText(c.Name)
	c.Email = NormalizeText(c.Email)
	c.Phone = NormalizeText(c.Phone)
	c.Note = NormalizeText(c.Note)
	return c
}

// NormalizeProduct normalizes the text fields of p.
func NormalizeProduct(p Product) Product {
	p.Name = NormalizeText(p.Name)
	p.Note = NormalizeText(p.Note)
	return p
}

// ValidateClient checks the required fields of a normalized client.
func ValidateClient(c Client) error {
	if c.Name == "" {
		return NewValidationError("name", "client name is required")
	}
	return nil
}

// ValidateProduct checks the required fields and ranges of a normalized product.
func ValidateProduct(p Product) error {
	if p.Name == "" {
		return NewValidationError("name", "product name is required")
	}
	if p.Price.IsNegative() {
		return NewValidationError("price", "price must not be negative, got %s", p.Price.String())
	}
	if p.Stock < 0 {
		return NewValidationError("stock", "stock must not be negative, got %d", p.Stock)
	}
	return nil
}
