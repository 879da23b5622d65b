package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a sales scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed in order against one store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	// Supported types: stock, sale_count, sale, outcome_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation with its expected outcome.
type Step struct {
	// Op names the operation; see the Op* constants.
	Op string `yaml:"op"`

	// Args are the operation arguments. Unused fields are ignored.
	Args Args `yaml:"args"`

	// Expect specifies the expected outcome.
	// If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Args carries the arguments of every operation.
type Args struct {
	ID       int64   `yaml:"id,omitempty"`
	Name     *string `yaml:"name,omitempty"`
	Email    *string `yaml:"email,omitempty"`
	Phone    *string `yaml:"phone,omitempty"`
	Note     *string `yaml:"note,omitempty"`
	Price    *string `yaml:"price,omitempty"`
	Stock    *int64  `yaml:"stock,omitempty"`
	Client   *int64  `yaml:"client,omitempty"`
	Product  int64   `yaml:"product,omitempty"`
	Quantity int64   `yaml:"quantity,omitempty"`
	Delta    int64   `yaml:"delta,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Error is the expected error code (VALIDATION, NOT_FOUND, ...).
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// ID is the expected id of the created record.
	ID int64 `yaml:"id,omitempty"`

	// Total is the expected total of a recorded sale.
	Total string `yaml:"total,omitempty"`

	// Stock is the expected product stock after the step.
	Stock *int64 `yaml:"stock,omitempty"`
}

// Operations.
const (
	OpAddClient     = "add_client"
	OpEditClient    = "edit_client"
	OpDeleteClient  = "delete_client"
	OpAddProduct    = "add_product"
	OpEditProduct   = "edit_product"
	OpDeleteProduct = "delete_product"
	OpRestock       = "restock"
	OpRecordSale    = "record_sale"
)

var validOps = map[string]bool{
	OpAddClient:     true,
	OpEditClient:    true,
	OpDeleteClient:  true,
	OpAddProduct:    true,
	OpEditProduct:   true,
	OpDeleteProduct: true,
	OpRestock:       true,
	OpRecordSale:    true,
}

// Assertion validates final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "stock": product's stock equals Equals
	// - "sale_count": number of recorded sales equals Count
	// - "sale": sale Sale has the given Client, ProductName and Total
	// - "outcome_count": steps of Op with outcome Outcome occurred Count times
	Type string `yaml:"type"`

	// Product is the product id (used by stock).
	Product int64 `yaml:"product,omitempty"`

	// Equals is the expected stock (used by stock).
	Equals int64 `yaml:"equals"`

	// Count is the expected number (used by sale_count, outcome_count).
	Count int `yaml:"count"`

	// Sale is the sale id (used by sale).
	Sale int64 `yaml:"sale,omitempty"`

	// Client and ProductName are expected display names (used by sale).
	Client      string `yaml:"client,omitempty"`
	ProductName string `yaml:"product_name,omitempty"`

	// Total is the expected sale total (used by sale).
	Total string `yaml:"total,omitempty"`

	// Op and Outcome select steps (used by outcome_count).
	Op      string `yaml:"op,omitempty"`
	Outcome string `yaml:"outcome,omitempty"`
}

// Assertion type constants.
const (
	AssertStock        = "stock"
	AssertSaleCount    = "sale_count"
	AssertSale         = "sale"
	AssertOutcomeCount = "outcome_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i+1, err)
		}
	}

	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertStock:
		if a.Product == 0 {
			return fmt.Errorf("stock assertion requires product")
		}
	case AssertSaleCount:
	case AssertSale:
		if a.Sale == 0 {
			return fmt.Errorf("sale assertion requires sale")
		}
	case AssertOutcomeCount:
		if !validOps[a.Op] {
			return fmt.Errorf("outcome_count assertion requires a valid op, got %q", a.Op)
		}
		if a.Outcome == "" {
			return fmt.Errorf("outcome_count assertion requires outcome")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
