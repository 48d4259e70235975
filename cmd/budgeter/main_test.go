package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/storage"
)

// testEnv points HOME at a temp dir and returns a fresh budget path.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "budget.db")
}

// runCLI executes the root command against dbPath and returns its output.
func runCLI(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func openStore(t *testing.T, dbPath string) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	return store
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{
		"init", "budget", "categories", "expenses", "summary", "export",
		"import", "import-ofx", "checkpoint", "dashboard", "version",
	} {
		assert.NotNil(t, findSubcommand(root, name), "%s subcommand should exist", name)
	}

	for _, flag := range []string{"config", "db", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "--%s flag should exist", flag)
	}
}

func TestVersionCmd(t *testing.T) {
	dbPath := testEnv(t)

	out, err := runCLI(t, dbPath, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "budgeter version dev")
}

func TestInitCmd(t *testing.T) {
	dbPath := testEnv(t)

	out, err := runCLI(t, dbPath, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget ready at "+dbPath)
	assert.Contains(t, out, "Weekly allowance")

	categories, err := openStore(t, dbPath).GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 5)
}

func TestInitCmd_InvalidLogLevel(t *testing.T) {
	dbPath := testEnv(t)

	_, err := runCLI(t, dbPath, "", "--log-level", "loud", "init")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestInitCmd_EnvironmentOverridesDefaultPath(t *testing.T) {
	dbPath := testEnv(t)
	envPath := filepath.Join(t.TempDir(), "from-env.db")
	t.Setenv("BUDGETER_DATABASE_PATH", envPath)

	viper.Reset()
	t.Cleanup(viper.Reset)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "error", "init"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	_, err := os.Stat(envPath)
	assert.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigFile(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "configured.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  path: "+dbPath+"\ncategories:\n  defaults: [Books, Travel]\n"), 0600))

	viper.Reset()
	t.Cleanup(viper.Reset)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "--log-level", "error", "init"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	categories, err := openStore(t, dbPath).GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Travel", categories[1].Name)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, arg := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(arg)
		assert.ErrorIs(t, err, common.ErrInvalidInput, "arg %q", arg)
	}
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.0 KB", formatFileSize(1024))
	assert.Equal(t, "1.5 MB", formatFileSize(1536*1024))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", formatRelativeTime(now.Add(-10*time.Second)))
	assert.Equal(t, "1 minute ago", formatRelativeTime(now.Add(-90*time.Second)))
	assert.Equal(t, "5 minutes ago", formatRelativeTime(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "2 hours ago", formatRelativeTime(now.Add(-2*time.Hour-time.Second)))
	assert.Equal(t, "yesterday", formatRelativeTime(now.Add(-30*time.Hour)))
	assert.Equal(t, "3 days ago", formatRelativeTime(now.Add(-73*time.Hour)))

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, old.Format("2006-01-02 15:04"), formatRelativeTime(old))
}
