package util

import "time"

/*
Utility functions.
*/

////////////////////////////////////////////////////////////////////////////////

// When returns a if condition is true, else b.
func When[T any](condition bool, a T, b T) T {
	if condition {
		return a
	}
	return b
}

// Map returns the result of applying f to each element of xs.
func Map[T any, U any](f func(T) U, xs []T) []U {
	ys := make([]U, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	return ys
}

// ParseMicros returns a time.Time from a microsecond timestamp.
func ParseMicros(x uint64) time.Time {
	return time.Unix(int64(x/1e6), int64(x%1e6)*1000)
}
