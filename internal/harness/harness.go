package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/gestion/internal/export"
	"github.com/roach88/gestion/internal/model"
	"github.com/roach88/gestion/internal/registry"
	"github.com/roach88/gestion/internal/sales"
	"github.com/roach88/gestion/internal/store"
	"github.com/roach88/gestion/internal/testutil"
)

// Collections lists the exports captured after every run, in snapshot order.
var Collections = []string{"clients", "products", "sales"}

// Harness executes scenario steps against one store.
type Harness struct {
	store    *store.Store
	clients  *registry.Clients
	products *registry.Products
	sales    *sales.Engine
	clock    *testutil.StepClock
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh temporary database with a step clock, so
// results are reproducible.
//
// Execution flow:
//  1. Create a fresh database
//  2. Execute steps, checking each against its expectation
//  3. Evaluate assertions against the final state
//  4. Capture the CSV export of every collection
//
// An error is returned only when the scenario cannot be executed at all;
// expectation and assertion failures are recorded in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "gestion-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "gestion.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		clients:  registry.NewClients(st, 0),
		products: registry.NewProducts(st, 0),
		clock:    testutil.NewStepClock(),
	}
	h.sales = sales.NewEngine(st, h.clients, h.products, sales.WithClock(h.clock))

	result := NewResult()
	for i, step := range scenario.Steps {
		got, err := h.execute(ctx, i+1, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		result.AddStep(got)
		for _, msg := range checkExpect(got, step.Expect) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", i+1, step.Op, msg))
		}
	}

	actx := &AssertionContext{Ctx: ctx, Products: h.products, Sales: h.sales}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	if err := h.captureExports(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// execute runs one step. Domain failures become the step's outcome; only
// failures without an error code are returned.
func (h *Harness) execute(ctx context.Context, n int, step Step) (StepResult, error) {
	res := StepResult{Step: n, Op: step.Op, Outcome: OutcomeOK}
	a := step.Args

	var (
		stockOf int64
		err     error
	)
	switch step.Op {
	case OpAddClient:
		var c model.Client
		c, err = h.clients.Add(ctx, model.ClientFields{
			Name:  deref(a.Name),
			Email: deref(a.Email),
			Phone: deref(a.Phone),
			Note:  deref(a.Note),
		})
		res.ID = c.ID

	case OpEditClient:
		_, err = h.clients.Edit(ctx, a.ID, model.ClientPatch{
			Name:  a.Name,
			Email: a.Email,
			Phone: a.Phone,
			Note:  a.Note,
		})

	case OpDeleteClient:
		err = h.clients.Delete(ctx, a.ID)

	case OpAddProduct:
		var p model.Product
		p, err = h.addProduct(ctx, a)
		res.ID = p.ID
		stockOf = p.ID

	case OpEditProduct:
		patch := model.ProductPatch{Name: a.Name, Stock: a.Stock, Note: a.Note}
		if a.Price != nil {
			price, perr := model.ParseMoney(*a.Price)
			if perr != nil {
				err = perr
				break
			}
			patch.Price = &price
		}
		_, err = h.products.Edit(ctx, a.ID, patch)
		stockOf = a.ID

	case OpDeleteProduct:
		err = h.products.Delete(ctx, a.ID)

	case OpRestock:
		_, err = h.products.Restock(ctx, a.ID, a.Delta)
		stockOf = a.ID

	case OpRecordSale:
		var sale model.Sale
		sale, err = h.sales.RecordSale(ctx, a.Client, a.Product, a.Quantity)
		res.ID = sale.ID
		if err == nil {
			res.Total = model.FormatMoney(sale.Total)
		}
		stockOf = a.Product

	default:
		return res, fmt.Errorf("unknown op %q", step.Op)
	}

	if err != nil {
		code := model.CodeOf(err)
		if code == "" {
			return res, err
		}
		return StepResult{Step: n, Op: step.Op, Outcome: string(code)}, nil
	}

	if stockOf != 0 {
		p, err := h.products.Get(ctx, stockOf)
		if err != nil {
			return res, fmt.Errorf("read stock: %w", err)
		}
		res.Stock = &p.Stock
	}
	return res, nil
}

func (h *Harness) addProduct(ctx context.Context, a Args) (model.Product, error) {
	price, err := model.ParseMoney(deref(a.Price))
	if err != nil {
		return model.Product{}, err
	}
	var stock int64
	if a.Stock != nil {
		stock = *a.Stock
	}
	return h.products.Add(ctx, model.ProductFields{
		Name:  deref(a.Name),
		Price: price,
		Stock: stock,
		Note:  deref(a.Note),
	})
}

// checkExpect compares a step result with its expectation. A nil
// expectation means the step must succeed.
func checkExpect(got StepResult, want *Expect) []string {
	if want == nil {
		want = &Expect{}
	}
	wantOutcome := OutcomeOK
	if want.Error != "" {
		wantOutcome = want.Error
	}

	var errs []string
	if got.Outcome != wantOutcome {
		errs = append(errs, fmt.Sprintf("expected outcome %s, got %s", wantOutcome, got.Outcome))
		return errs
	}
	if want.ID != 0 && got.ID != want.ID {
		errs = append(errs, fmt.Sprintf("expected id %d, got %d", want.ID, got.ID))
	}
	if want.Total != "" && got.Total != want.Total {
		errs = append(errs, fmt.Sprintf("expected total %s, got %s", want.Total, got.Total))
	}
	if want.Stock != nil {
		switch {
		case got.Stock == nil:
			errs = append(errs, fmt.Sprintf("expected stock %d, step reports none", *want.Stock))
		case *got.Stock != *want.Stock:
			errs = append(errs, fmt.Sprintf("expected stock %d, got %d", *want.Stock, *got.Stock))
		}
	}
	return errs
}

func (h *Harness) captureExports(ctx context.Context, result *Result) error {
	var buf bytes.Buffer
	writers := map[string]func() error{
		"clients":  func() error { return export.Write(&buf, export.ClientsTable, h.clients.List(ctx)) },
		"products": func() error { return export.Write(&buf, export.ProductsTable, h.products.List(ctx)) },
		"sales":    func() error { return export.Write(&buf, export.SalesTable, h.sales.ListSales(ctx)) },
	}
	for _, name := range Collections {
		buf.Reset()
		if err := writers[name](); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
		result.Exports[name] = buf.String()
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
