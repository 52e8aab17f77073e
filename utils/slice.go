package utils

// Filter keeps the elements for which keep returns true, preserving order.
// The input slice is not modified.
func Filter[T any](a []T, keep func(T) bool) []T {
	out := make([]T, 0, len(a))
	for _, v := range a {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func IndexOf[T any](a []T, match func(T) bool) int {
	for i, v := range a {
		if match(v) {
			return i
		}
	}
	return -1
}

func Clone[T any](a []T) []T {
	if a == nil {
		return []T{}
	}
	out := make([]T, len(a))
	copy(out, a)
	return out
}
