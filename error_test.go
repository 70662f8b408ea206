package pagefeat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/pagefeat"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodeAndMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{
			name:    "nil",
			err:     nil,
			code:    "",
			message: "",
		},
		{
			name:    "application error",
			err:     pagefeat.Errorf(pagefeat.EUNAVAILABLE, "generator %q unreachable", "ollama"),
			code:    pagefeat.EUNAVAILABLE,
			message: `generator "ollama" unreachable`,
		},
		{
			name:    "wrapped application error",
			err:     fmt.Errorf("serving request: %w", pagefeat.Errorf(pagefeat.ETIMEOUT, "deadline exceeded")),
			code:    pagefeat.ETIMEOUT,
			message: "deadline exceeded",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			code:    pagefeat.EINTERNAL,
			message: "Internal error.",
		},
		{
			name:    "context error",
			err:     context.Canceled,
			code:    pagefeat.EINTERNAL,
			message: "Internal error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.code, pagefeat.ErrorCode(tt.err))
			assert.Equal(t, tt.message, pagefeat.ErrorMessage(tt.err))
		})
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	err := pagefeat.Errorf(pagefeat.EINVALID, "document is not valid UTF-8")

	assert.Equal(t, "pagefeat error: code=invalid message=document is not valid UTF-8", err.Error())
}
