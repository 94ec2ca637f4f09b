package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrationsSorted(t *testing.T) {
	names, err := PendingMigrations(nil)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Equal(t, "0001_accounts.sql", names[0])
}

func TestPendingMigrationsSkipsApplied(t *testing.T) {
	all, err := PendingMigrations(nil)
	require.NoError(t, err)

	pending, err := PendingMigrations(map[string]bool{all[0]: true})
	require.NoError(t, err)
	assert.Len(t, pending, len(all)-1)
	assert.NotContains(t, pending, all[0])
}
