package campus_test

import (
	"context"
	"testing"

	"github.com/myschool/campus"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	require.Equal(t, "campus context key: ParamsKey", campus.ParamsKey.String())
}

func TestKeyDoesNotCollideWithString(t *testing.T) {
	// Arrange
	ctx := context.WithValue(context.Background(), campus.RequestIDKey, "from campus")
	ctx = context.WithValue(ctx, "RequestIDKey", "from elsewhere")

	// Act
	val := ctx.Value(campus.RequestIDKey)

	// Assert
	require.Equal(t, "from campus", val)
}
