// Package util holds formatting helpers shared by the table printers.
package util

import "strings"

// IndentExpand repeats indent growth times
func IndentExpand(indent string, growth int) string {
	return strings.Repeat(indent, max(growth, 0))
}
