package invariant

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorfWrapsViolation(t *testing.T) {
	t.Parallel()

	err := Errorf("leg count %d below 1", 0)
	assert.True(t, Is(err))
	assert.True(t, errors.Is(err, ErrViolation))
	assert.EqualError(t, err, "invariant violation: leg count 0 below 1")

	wrapped := fmt.Errorf("build parlay: %w", err)
	assert.True(t, Is(wrapped))
	assert.False(t, Is(errors.New("other")))
}
