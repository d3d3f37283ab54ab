package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// statementVerbs are the only tokens an embedded migration statement may
// start with. Anything else means the splitter produced a chunk of prose.
var statementVerbs = map[string]struct{}{
	"CREATE": {},
	"ALTER":  {},
	"DROP":   {},
	"INSERT": {},
	"UPDATE": {},
}

func TestSplitStatementsDropsCommentLines(t *testing.T) {
	content := `-- header prose with a semicolon; more prose
CREATE TABLE a (id TEXT);
-- trailing note; also with one
ALTER TABLE a ENABLE ROW LEVEL SECURITY;
`
	statements := splitStatements(content)
	require.Len(t, statements, 2)
	require.Equal(t, "CREATE TABLE a (id TEXT)", statements[0])
	require.Equal(t, "ALTER TABLE a ENABLE ROW LEVEL SECURITY", statements[1])
}

func TestEmbeddedMigrationsSplitCleanly(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		content, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		require.NoError(t, err)
		statements := splitStatements(string(content))
		require.NotEmpty(t, statements, entry.Name())
		for _, q := range statements {
			verb := strings.ToUpper(strings.Fields(q)[0])
			_, ok := statementVerbs[verb]
			require.True(t, ok, "%s: statement starts with %q: %s", entry.Name(), verb, q)
		}
	}
}
