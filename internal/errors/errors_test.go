package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	err := New(fmt.Errorf("boom")).Build()

	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.Equal(t, ComponentUnknown, err.Component)
	assert.False(t, err.Timestamp.IsZero())
}

func TestBuilderCategoryAndContext(t *testing.T) {
	err := Newf("coin %q not found", "dogecoin").
		Component("coingecko").
		Category(CategoryNotFound).
		Context("coin_id", "dogecoin").
		Build()

	assert.Equal(t, CategoryNotFound, err.Category)
	assert.Equal(t, "coingecko", err.Component)
	assert.Equal(t, "dogecoin", err.GetContext()["coin_id"])
	assert.Contains(t, err.Error(), "dogecoin")
}

func TestCategoryMatching(t *testing.T) {
	notFound := Newf("note 42 not found").Category(CategoryNotFound).Build()
	timeout := Newf("deadline exceeded").Category(CategoryTimeout).Build()

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(timeout))
	assert.True(t, IsTimeout(timeout))

	// Wrapped enhanced errors still report their category.
	wrapped := fmt.Errorf("request failed: %w", notFound)
	assert.Equal(t, CategoryNotFound, CategoryOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestCategoryOfPlainError(t *testing.T) {
	assert.Equal(t, CategoryGeneric, CategoryOf(io.EOF))
	assert.False(t, IsNotFound(io.EOF))
}

func TestUnwrapPreservesSentinel(t *testing.T) {
	err := New(fmt.Errorf("read: %w", io.EOF)).Category(CategoryNetwork).Build()

	require.True(t, Is(err, io.EOF))

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, CategoryNetwork, ee.Category)
}

func TestContextCopyIsIsolated(t *testing.T) {
	err := Newf("x").Context("k", "v").Build()

	ctx := err.GetContext()
	ctx["k"] = "mutated"

	assert.Equal(t, "v", err.GetContext()["k"])
}
