package models

// Result is the outcome of a best-effort operation: a value or the reason it failed
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a failure
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Succeeded reports whether the operation produced a value
func (r Result[T]) Succeeded() bool {
	return r.Err == nil
}
