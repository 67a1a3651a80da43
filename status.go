package nvcodec

// statusCode is the contract shared by the driver, encoder and NPP status
// types: a comparable raw code that knows its own success sentinel and is
// itself the error value on failure.
type statusCode interface {
	comparable
	error
	Ok() bool
}

// checkStatus converts a status into a unit result. The failing code is
// returned unchanged so callers can recover it with errors.As.
func checkStatus[S statusCode](s S) error {
	if s.Ok() {
		return nil
	}
	return s
}

// statusValue carries v through on success and the failing code otherwise.
func statusValue[T any, S statusCode](s S, v T) (T, error) {
	if s.Ok() {
		return v, nil
	}
	var zero T
	return zero, s
}
