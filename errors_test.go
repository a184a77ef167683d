package lod

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func ExampleError() {
	fmt.Println(&Error{
		Kind:    ErrInternal,
		Message: "test",
		Op:      "ExampleError",
	})

	fmt.Println(&Error{
		Inner:   errors.New("no such host"),
		Kind:    ErrTransport,
		Message: "dial failed",
		Op:      "Fetch",
	})
	err := fmt.Errorf("lod: %w", &Error{
		Inner:   errors.New("no such host"),
		Kind:    ErrTransport,
		Message: "dial failed",
		Op:      "Fetch",
	})
	fmt.Println(err)

	// Output:
	// ExampleError [internal]: test
	// Fetch [transport]: dial failed: no such host
	// lod: Fetch [transport]: dial failed: no such host
}

type retryTestcase struct {
	Err      error
	Retryable bool
}

func (tc retryTestcase) Run(t *testing.T) {
	t.Log(tc.Err)
	if got, want := errors.Is(tc.Err, ErrRetryable), tc.Retryable; got != want {
		t.Errorf("%v: got: %v, want: %v", ErrRetryable, got, want)
	}
}

func TestRetryable(t *testing.T) {
	tt := []retryTestcase{
		// 0: a transport failure should be retried.
		{
			Err:       &Error{Inner: errors.New("connection reset"), Kind: ErrTransport},
			Retryable: true,
		},
		// 1: an HTTP status is permanent until the resource changes.
		{
			Err:       &Error{Inner: errors.New("404"), Kind: ErrHTTPStatus},
			Retryable: false,
		},
		// 2: a redirect limit is permanent, regardless of wrapping.
		{
			Err:       fmt.Errorf("locate: %w", &Error{Kind: ErrRedirectLimit}),
			Retryable: false,
		},
		// 3: a parse failure is permanent.
		{
			Err:       &Error{Kind: ErrParse, Message: "unexpected token"},
			Retryable: false,
		},
	}

	for i, tc := range tt {
		t.Run(strconv.Itoa(i), tc.Run)
	}
}
