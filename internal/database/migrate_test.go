package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case len(name) > 7 && name[len(name)-7:] == ".up.sql":
			ups[name[:len(name)-7]] = true
		case len(name) > 9 && name[len(name)-9:] == ".down.sql":
			downs[name[:len(name)-9]] = true
		}
	}
	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestAccountsMigrationDeclaresUniqueIndexes(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS, "migrations/000001_create_accounts.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "accounts_email_key ON accounts (LOWER(email))")
	assert.Contains(t, string(b), "accounts_sap_id_key ON accounts (sap_id)")
}
