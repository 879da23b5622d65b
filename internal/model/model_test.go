package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("record sale: %w", NewInsufficientStockError(1, 3, 2))

	assert.Equal(t, ErrCodeInsufficientStock, CodeOf(err))
	assert.True(t, IsInsufficientStock(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestErrorDetails(t *testing.T) {
	nf := NewNotFoundError("product", 7)
	assert.Equal(t, "NOT_FOUND: product 7 not found", nf.Error())
	assert.Equal(t, map[string]string{"kind": "product", "id": "7"}, nf.Details)

	is := NewInsufficientStockError(1, 3, 2)
	assert.Equal(t, "3", is.Details["requested"])
	assert.Equal(t, "2", is.Details["available"])

	cause := errors.New("disk I/O error")
	su := NewStorageUnavailableError("list clients", cause)
	assert.True(t, IsStorageUnavailable(su))
	assert.ErrorIs(t, su, cause)
	assert.Equal(t, "STORAGE_UNAVAILABLE: list clients: storage unavailable: disk I/O error", su.Error())
}

func TestNormalizeClient(t *testing.T) {
	c := NormalizeClient(Client{
		Name:  "  José ",
		Email: " ana@example.com",
		Note:  "\tcafé\n",
	})
	assert.Equal(t, "José", c.Name)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "", c.Phone)
	assert.Equal(t, "café", c.Note)
}

func TestValidateClient(t *testing.T) {
	require.NoError(t, ValidateClient(Client{Name: "Ana"}))

	err := ValidateClient(NormalizeClient(Client{Name: "   "}))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name  string
		p     Product
		field string
	}{
		{"ok", Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 5}, ""},
		{"free", Product{Name: "Sample"}, ""},
		{"no name", Product{Price: decimal.NewFromInt(1)}, "name"},
		{"negative price", Product{Name: "Widget", Price: decimal.NewFromInt(-1)}, "price"},
		{"negative stock", Product{Name: "Widget", Stock: -1}, "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.p)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, ErrCodeValidation, e.Code)
			assert.Equal(t, tt.field, e.Details["field"])
		})
	}
}

func TestPatchApply(t *testing.T) {
	name, empty := "Ana María", ""
	c := ClientPatch{Name: &name, Phone: &empty}.Apply(Client{ID: 1, Name: "Ana", Email: "a@x", Phone: "555"})
	assert.Equal(t, Client{ID: 1, Name: "Ana María", Email: "a@x"}, c)

	price := decimal.RequireFromString("12.50")
	stock := int64(0)
	p := ProductPatch{Price: &price, Stock: &stock}.Apply(Product{ID: 2, Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5, Note: "n"})
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "12.50", FormatMoney(p.Price))
	assert.Equal(t, int64(0), p.Stock)
	assert.Equal(t, "n", p.Note)
}

func TestSaleViewDisplay(t *testing.T) {
	id := int64(1)
	v := SaleView{Sale: Sale{ClientID: &id, ProductID: nil}, ClientName: "Ana", ProductName: ""}
	assert.Equal(t, "Ana", v.ClientDisplay())
	assert.Equal(t, UnknownName, v.ProductDisplay())
}
