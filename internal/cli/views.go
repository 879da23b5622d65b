package cli

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/gestion/internal/export"
	"github.com/roach88/gestion/internal/model"
	"github.com/roach88/gestion/internal/store"
)

// productView is the JSON shape of a product. Money is a formatted string.
type productView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
	Note  string `json:"note,omitempty"`
}

func newProductView(p model.Product) productView {
	return productView{
		ID:    p.ID,
		Name:  p.Name,
		Price: model.FormatMoney(p.Price),
		Stock: p.Stock,
		Note:  p.Note,
	}
}

// saleView is the JSON shape of a sale with its display names.
type saleView struct {
	ID        int64  `json:"id"`
	ClientID  *int64 `json:"client_id"`
	Client    string `json:"client"`
	ProductID *int64 `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
	CreatedAt string `json:"created_at"`
}

func newSaleView(v model.SaleView) saleView {
	return saleView{
		ID:        v.ID,
		ClientID:  v.ClientID,
		Client:    v.ClientDisplay(),
		ProductID: v.ProductID,
		Product:   v.ProductDisplay(),
		Quantity:  v.Quantity,
		UnitPrice: model.FormatMoney(v.UnitPrice),
		Total:     model.FormatMoney(v.Total),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func identity[T any](v T) T { return v }

// writeList renders a listing: a JSON array of views, or a text table whose
// columns are those of the CSV export.
func writeList[T, V any](f *OutputFormatter, seq iter.Seq2[T, error], table export.Table[T], view func(T) V) error {
	records, err := store.Collect(seq)
	if err != nil {
		return err
	}
	if f.Format == "json" {
		views := make([]V, 0, len(records))
		for _, r := range records {
			views = append(views, view(r))
		}
		return f.Success(views)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row(r))
	}
	return f.Table(table.Header, rows)
}

// writeOne renders a single record the same way writeList renders a row.
func writeOne[T, V any](f *OutputFormatter, rec T, table export.Table[T], view func(T) V) error {
	if f.Format == "json" {
		return f.Success(view(rec))
	}
	return f.Table(table.Header, [][]string{table.Row(rec)})
}

// deleted is the JSON payload of a delete command.
type deleted struct {
	Kind    string `json:"kind"`
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (d deleted) String() string {
	return "deleted " + d.Kind + " " + strconv.FormatInt(d.ID, 10)
}

// parseID parses a positive record id given on the command line.
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", "invalid %s id %q", kind, s)
	}
	return id, nil
}
