package export

import (
	"strconv"
	"time"

	"github.com/roach88/gestion/internal/model"
)

// ClientsTable renders clients.
var ClientsTable = Table[model.Client]{
	Header: []string{"id", "name", "email", "phone", "note"},
	Row: func(c model.Client) []string {
		return []string{id(c.ID), c.Name, c.Email, c.Phone, c.Note}
	},
}

// ProductsTable renders products. Prices use the money formatter.
var ProductsTable = Table[model.Product]{
	Header: []string{"id", "name", "price", "stock", "note"},
	Row: func(p model.Product) []string {
		return []string{id(p.ID), p.Name, model.FormatMoney(p.Price), strconv.FormatInt(p.Stock, 10), p.Note}
	},
}

// SalesTable renders sales with the display names of what they reference.
// An absent client or product leaves its id cell empty and shows
// model.UnknownName.
var SalesTable = Table[model.SaleView]{
	Header: []string{"id", "client_id", "client", "product_id", "product", "quantity", "unit_price", "total", "created_at"},
	Row: func(v model.SaleView) []string {
		return []string{
			id(v.ID),
			optionalID(v.ClientID),
			v.ClientDisplay(),
			optionalID(v.ProductID),
			v.ProductDisplay(),
			strconv.FormatInt(v.Quantity, 10),
			model.FormatMoney(v.UnitPrice),
			model.FormatMoney(v.Total),
			v.CreatedAt.UTC().Format(time.RFC3339),
		}
	},
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func optionalID(n *int64) string {
	if n == nil {
		return ""
	}
	return id(*n)
}
