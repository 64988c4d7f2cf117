package util

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// PanicError is what Settle reports for a task that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Settle runs fn for every input in its own goroutine and waits until all of them
// return. errs[i] is the result for inputs[i]. A failing or panicking task never
// stops its siblings.
func Settle[T any](ctx context.Context, inputs []T, fn func(context.Context, T) error) []error {
	errs := make([]error, len(inputs))
	if len(inputs) == 0 {
		return errs
	}

	var wg sync.WaitGroup
	for i, item := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					errs[i] = &PanicError{Value: v, Stack: debug.Stack()}
				}
			}()
			errs[i] = fn(ctx, item)
		}()
	}
	wg.Wait()

	return errs
}
