package utils

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a recovered panic with the stack of the goroutine that panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("got panic: %v", e.Value)
}

func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = &PanicError{Value: rv, Stack: debug.Stack()}
	}
}
