package subpub

import (
	"errors"
	"fmt"
)

// ErrSubscriberPanic — колл-бэк подписчика запаниковал во время Emit.
var ErrSubscriberPanic = errors.New("subpub: subscriber panicked")

// PanicError описывает панику колл-бэка во время Emit.
type PanicError struct {
	Value any    // значение, переданное в panic
	Stack []byte // стек запаниковавшей горутины
}

func newPanicError(v any, stack []byte) *PanicError {
	return &PanicError{Value: v, Stack: stack}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSubscriberPanic, e.Value)
}

// Unwrap отдаёт ErrSubscriberPanic, а если значение паники — error, то и его.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrSubscriberPanic, err}
	}
	return []error{ErrSubscriberPanic}
}
