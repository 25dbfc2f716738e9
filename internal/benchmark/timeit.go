package benchmark

import "time"

// Timeit runs fn and returns its results along with the wall-clock time it took
func Timeit[T any](fn func() (T, error)) (T, time.Duration, error) {
	start := time.Now()
	result, err := fn()
	return result, time.Since(start), err
}
