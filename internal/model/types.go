package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownName is displayed in place of a client or product that is absent.
const UnknownName = "unknown"

// Client is a customer record.
type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Note  string `json:"note,omitempty"`
}

// ClientFields carries the values for a new client.
type ClientFields struct {
	Name  string
	Email string
	Phone string
	Note  string
}

// ClientPatch lists the fields to overwrite on edit. Nil fields are kept.
type ClientPatch struct {
	Name  *string
	Email *string
	Phone *string
	Note  *string
}

// Apply returns c with the patch fields overwritten.
func (p ClientPatch) Apply(c Client) Client {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Note != nil {
		c.Note = *p.Note
	}
	return c
}

// Product is a sellable item.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
	Note  string          `json:"note,omitempty"`
}

// ProductFields carries the values for a new product.
type ProductFields struct {
	Name  string
	Price decimal.Decimal
	Stock int64
	Note  string
}

// ProductPatch lists the fields to overwrite on edit. Nil fields are kept.
type ProductPatch struct {
	Name  *string
	Price *decimal.Decimal
	Stock *int64
	Note  *string
}

// Apply returns p with the patch fields overwritten.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.Note != nil {
		p.Note = *pp.Note
	}
	return p
}

// Sale is a recorded sale. It is never modified after creation.
type Sale struct {
	ID        int64           `json:"id"`
	ClientID  *int64          `json:"client_id"`
	ProductID *int64          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaleView is a Sale joined with the current names of what it references.
// Names are empty when the reference is absent.
type SaleView struct {
	Sale
	ClientName  string `json:"client_name,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// ClientDisplay returns the client name, or UnknownName when absent.
func (v SaleView) ClientDisplay() string {
	if v.ClientID == nil {
		return UnknownName
	}
	return v.ClientName
}

// ProductDisplay returns the product name, or UnknownName when absent.
func (v SaleView) ProductDisplay() string {
	if v.ProductID == nil {
		return UnknownName
	}
	return v.ProductName
}
