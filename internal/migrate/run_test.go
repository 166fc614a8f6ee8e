package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "0001_init", versions[0])
	assert.IsNonDecreasing(t, versions)
}

func TestInitialMigrationCreatesTables(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"user_preferences", "events", "help_tickets", "posts"} {
		assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS "+table)
	}
}
