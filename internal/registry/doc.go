// Package registry implements the client and product collections on top of
// the store. Writes run in their own transaction except AdjustStock, which
// joins the caller's.
package registry
