package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/gestion/internal/model"
	"github.com/roach88/gestion/internal/registry"
	"github.com/roach88/gestion/internal/sales"
	"github.com/roach88/gestion/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []StepResult // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, step := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", step)
		}
	}

	return buf.String()
}

// AssertionContext provides the components state assertions read from.
type AssertionContext struct {
	Ctx      context.Context
	Products *registry.Products
	Sales    *sales.Engine
}

// assertStock checks a product's current stock.
func assertStock(actx *AssertionContext, trace []StepResult, assertion Assertion) error {
	p, err := actx.Products.Get(actx.Ctx, assertion.Product)
	if err != nil {
		return &AssertionError{
			Type:     AssertStock,
			Expected: fmt.Sprintf("product %d with stock %d", assertion.Product, assertion.Equals),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	if p.Stock != assertion.Equals {
		return &AssertionError{
			Type:     AssertStock,
			Expected: fmt.Sprintf("product %d stock %d", assertion.Product, assertion.Equals),
			Actual:   fmt.Sprintf("stock %d", p.Stock),
			Trace:    trace,
		}
	}
	return nil
}

// assertSaleCount checks the number of recorded sales.
func assertSaleCount(actx *AssertionContext, trace []StepResult, assertion Assertion) error {
	all, err := store.Collect(actx.Sales.ListSales(actx.Ctx))
	if err != nil {
		return fmt.Errorf("sale_count: %w", err)
	}
	if len(all) != assertion.Count {
		return &AssertionError{
			Type:     AssertSaleCount,
			Expected: fmt.Sprintf("%d sales", assertion.Count),
			Actual:   fmt.Sprintf("%d sales", len(all)),
			Trace:    trace,
		}
	}
	return nil
}

// assertSale checks the display names and total of one sale. Empty fields
// of the assertion are not checked.
func assertSale(actx *AssertionContext, trace []StepResult, assertion Assertion) error {
	v, err := actx.Sales.GetSale(actx.Ctx, assertion.Sale)
	if err != nil {
		return &AssertionError{
			Type:     AssertSale,
			Expected: fmt.Sprintf("sale %d", assertion.Sale),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}

	var mismatches []string
	if assertion.Client != "" && v.ClientDisplay() != assertion.Client {
		mismatches = append(mismatches, fmt.Sprintf("client %q != %q", v.ClientDisplay(), assertion.Client))
	}
	if assertion.ProductName != "" && v.ProductDisplay() != assertion.ProductName {
		mismatches = append(mismatches, fmt.Sprintf("product %q != %q", v.ProductDisplay(), assertion.ProductName))
	}
	if total := model.FormatMoney(v.Total); assertion.Total != "" && total != assertion.Total {
		mismatches = append(mismatches, fmt.Sprintf("total %s != %s", total, assertion.Total))
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertSale,
			Expected: fmt.Sprintf("sale %d client=%q product=%q total=%s", assertion.Sale, assertion.Client, assertion.ProductName, assertion.Total),
			Actual:   strings.Join(mismatches, "; "),
			Trace:    trace,
		}
	}
	return nil
}

// assertOutcomeCount checks how many steps of an op had the given outcome.
func assertOutcomeCount(trace []StepResult, assertion Assertion) error {
	count := 0
	for _, step := range trace {
		if step.Op == assertion.Op && step.Outcome == assertion.Outcome {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertOutcomeCount,
			Expected: fmt.Sprintf("%d %s steps with outcome %s", assertion.Count, assertion.Op, assertion.Outcome),
			Actual:   fmt.Sprintf("%d", count),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides access to the final state.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertOutcomeCount:
			err = assertOutcomeCount(result.Trace, assertion)
		case AssertStock, AssertSaleCount, AssertSale:
			if actx == nil || actx.Products == nil || actx.Sales == nil {
				err = fmt.Errorf("assertion[%d]: %s requires state context", i, assertion.Type)
				break
			}
			switch assertion.Type {
			case AssertStock:
				err = assertStock(actx, result.Trace, assertion)
			case AssertSaleCount:
				err = assertSaleCount(actx, result.Trace, assertion)
			case AssertSale:
				err = assertSale(actx, result.Trace, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
