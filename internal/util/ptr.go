package util

// Ptr returns a pointer to a copy of v, for optional fields set from
// expressions.
func Ptr[T any](v T) *T {
	return &v
}
