package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("missing")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidArgument("bad input"))
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	assert.True(t, IsInvalidArgument(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(CodeInternal, "failed to save", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to save")
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "missing", MessageOf(NotFound("missing")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("plain")))
}
