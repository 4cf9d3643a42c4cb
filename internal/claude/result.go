package claude

// Result is the outcome of analyzing one session file. A failed result holds
// only its error; Value refuses to hand out a zero value as if it were data.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successfully parsed value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a session-level failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Value returns the parsed value, or the failure.
func (r Result[T]) Value() (T, error) {
	return r.value, r.err
}

// Failed reports whether the session could not be analyzed.
func (r Result[T]) Failed() bool {
	return r.err != nil
}

// Err returns the failure, or nil.
func (r Result[T]) Err() error {
	return r.err
}

// Map applies fn to a successful value and passes a failure through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return Ok(fn(r.value))
}
