package util

// PtrEqual reports whether two pointers are equal by identity or by the
// values they point at.
func PtrEqual[T comparable](a, b *T) bool {
	return FastEqual(a, b, func(a, b *T) bool { return *a == *b })
}

// FastEqual short-circuits on pointer identity and nil before falling back
// to the given comparison.
func FastEqual[V any](a, b *V, slowEqual func(a, b *V) bool) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	return slowEqual(a, b)
}
