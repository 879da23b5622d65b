// Package sales records sales and reads them back.
//
// A sale is recorded in a single store transaction: the product is resolved
// and its price read, the optional client is resolved, stock is decremented
// through the product registry and the sale row is inserted. Any failure
// rolls the whole unit back, so stock and sales never disagree.
//
// Recorded sales are immutable. Their unit price and total are copied at
// recording time and survive later price edits and the deletion of the
// client or product they reference.
package sales
