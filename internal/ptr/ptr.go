// Package ptr has small helpers for optional values represented as pointers.
package ptr

// Ref returns a pointer to v. Handy for filling optional struct fields
// from literals.
func Ref[T any](v T) *T {
	return &v
}
