package util

import "fmt"

// Named associates a name with a value. Decoded records use slices of Named
// values to preserve field declaration order, which maps do not.
type Named[T any] struct {
	Name  string `json:"name"`
	Value T      `json:"value"`
}

func (n Named[T]) String() string {
	return fmt.Sprintf("(%s: %v)", n.Name, n.Value)
}

func NewNamed[T any](name string, value T) Named[T] {
	return Named[T]{Name: name, Value: value}
}
