// Package export writes collections as CSV.
//
// A Table describes the header and how to render one record. Write streams
// any lazy listing through a table in listing order, so exports never hold
// a whole collection in memory. WriteFile replaces the destination
// atomically.
package export
