package cli

import (
	"context"
	"errors"
)

var (
	// ErrExit is returned by the exit handler to stop the menu loop.
	ErrExit = errors.New("exit requested")
	// ErrInvalidInput marks input that was rejected and reported to the user.
	ErrInvalidInput = errors.New("invalid input")
)

type HandlerFunc func(ctx context.Context) error

type MiddlewareFunc func(next HandlerFunc) HandlerFunc

func Chain(h HandlerFunc, mw ...MiddlewareFunc) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
