package postgres_test

import (
	"testing"

	"github.com/myschool/campus/postgres"
	"github.com/stretchr/testify/require"
)

func TestPending(t *testing.T) {
	// Arrange
	all := []postgres.Migration{{Key: "0001-professor"}, {Key: "0002-student"}, {Key: "0003-department"}}

	// Act
	none := postgres.Pending(nil, all)
	some := postgres.Pending([]string{"0001-professor", "0003-department"}, all)
	done := postgres.Pending([]string{"0001-professor", "0002-student", "0003-department"}, all)

	// Assert
	require.Len(t, none, 3)
	require.Len(t, some, 1)
	require.Equal(t, "0002-student", some[0].Key)
	require.Empty(t, done)
}
