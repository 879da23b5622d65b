// Package harness replays sales scenarios against a fresh store.
//
// A scenario is a YAML file listing operations (add a client, record a sale,
// delete a product, ...) with the outcome each should have, followed by
// assertions on the final state:
//
//	name: widget_stock
//	description: selling more than is in stock is refused
//	steps:
//	  - op: add_product
//	    args: {name: Widget, price: "10.00", stock: 5}
//	  - op: record_sale
//	    args: {product: 1, quantity: 3}
//	    expect: {total: "30.00"}
//	  - op: record_sale
//	    args: {product: 1, quantity: 3}
//	    expect: {error: INSUFFICIENT_STOCK}
//	assertions:
//	  - {type: stock, product: 1, equals: 2}
//	  - {type: sale_count, count: 1}
//
// Each run uses its own temporary database and a step clock, so the trace
// and the CSV exports it produces are identical on every run and can be
// compared against golden files.
package harness
