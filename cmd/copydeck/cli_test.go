package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/copydeck/internal/platform"
	"github.com/aretw0/copydeck/pkg/core"
)

// resetFlags undoes flag state left behind by a previous Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI against dir with stdin as user input.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(platform.EnvDataDir, "")
	t.Setenv(platform.EnvLogLevel, "")
	resetFlags(rootCmd)
	color.NoColor = true

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{
		"--data-dir", dir,
		"--config", filepath.Join(dir, "absent.yaml"),
	}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dir, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, stdin, args...)
	require.NoError(t, err, "copydeck %s", strings.Join(args, " "))
	return out
}

func TestDeckCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "", "deck", "ls")
	assert.Equal(t, "* Welcome/Read Me (6)\n  General Info/Links (3)\n  Resume (3)\n", out)

	out = mustRun(t, dir, "", "deck", "add")
	assert.Equal(t, "New Deck 4\n", out)

	out = mustRun(t, dir, "Snippets\n", "deck", "rename", "New Deck 4")
	assert.Contains(t, out, "Enter new name: ")
	assert.Contains(t, out, `Renamed "New Deck 4" to "Snippets"`)

	out = mustRun(t, dir, "\n", "deck", "rename", "Snippets")
	assert.Contains(t, out, "Rename cancelled.")

	out = mustRun(t, dir, "", "deck", "ls")
	assert.Contains(t, out, "* Snippets (0)\n")

	out = mustRun(t, dir, "", "deck", "move", "3", "0")
	assert.Equal(t, "Moved 3 to 0\n", out)

	out = mustRun(t, dir, "", "deck", "move", "1", "1")
	assert.Equal(t, "Nothing moved.\n", out)

	out = mustRun(t, dir, "", "deck", "use", "Resume")
	assert.Equal(t, "Active deck: Resume\n", out)

	_, err := run(t, dir, "", "deck", "use", "Missing")
	assert.ErrorIs(t, err, core.ErrDeckNotFound)

	out = mustRun(t, dir, "n\n", "deck", "rm", "Resume")
	assert.Contains(t, out, `Delete "Resume" and all its cards? [y/N]: `)
	assert.Contains(t, out, "Cancelled.")

	mustRun(t, dir, "", "deck", "rm", "Resume", "--yes")

	out = mustRun(t, dir, "", "deck", "ls", "--json")
	var decks []deckSummary
	require.NoError(t, json.Unmarshal([]byte(out), &decks))
	names := make([]string, 0, len(decks))
	for _, d := range decks {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Snippets", "Welcome/Read Me", "General Info/Links"}, names)
	assert.True(t, decks[0].Active, "first remaining deck becomes active")
}

func TestCardCommands(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "", "deck", "add")
	out := mustRun(t, dir, "", "card", "add")
	require.True(t, strings.HasSuffix(out, "to \"New Deck 4\"\n"), out)
	rowID := strings.Fields(out)[1]

	mustRun(t, dir, "", "card", "edit", rowID, "--content", "kubectl get pods -A")
	out = mustRun(t, dir, "", "card", "show", rowID)
	assert.Equal(t, "kubectl get pods -A\n", out)

	mustRun(t, dir, "", "card", "edit", rowID, "--label", "Pods")
	out = mustRun(t, dir, "", "card", "ls", "--json")
	var deck core.Deck
	require.NoError(t, json.Unmarshal([]byte(out), &deck))
	require.Len(t, deck.Rows, 1)
	assert.Equal(t, "Pods", deck.Rows[0].Columns[0].Label)
	assert.Equal(t, "kubectl get pods -A", deck.Rows[0].Columns[0].Content, "omitted flags keep the current value")

	mustRun(t, dir, "", "card", "add")
	out = mustRun(t, dir, "", "card", "move", "0", "1")
	assert.Equal(t, "Moved 0 to 1\n", out)

	out = mustRun(t, dir, "no\n", "card", "rm", rowID)
	assert.Contains(t, out, "Are you sure you want to delete this entry? [y/N]: ")
	assert.Contains(t, out, "Cancelled.")

	mustRun(t, dir, "y\n", "card", "rm", rowID)
	_, err := run(t, dir, "", "card", "show", rowID)
	assert.ErrorIs(t, err, errCardNotFound)
}

func TestCardAddWithoutDecks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Welcome/Read Me", "General Info/Links", "Resume"} {
		mustRun(t, dir, "", "deck", "rm", name, "--yes")
	}

	out := mustRun(t, dir, "", "card", "ls")
	assert.Equal(t, "No active deck.\n", out)

	out = mustRun(t, dir, "", "card", "add")
	assert.Contains(t, out, `to "General"`)
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "deck", "add")

	out := mustRun(t, dir, "", "export", "-")
	stored, err := os.ReadFile(filepath.Join(dir, core.DefaultStorageKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, string(stored), out)

	file := filepath.Join(t.TempDir(), "copyDeckData.json")
	mustRun(t, dir, "", "export", file)
	exported, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, stored, exported)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1,2,3]`), 0600))
	_, err = run(t, dir, "", "import", bad)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error importing file: "), err.Error())
	assert.ErrorIs(t, err, core.ErrImport)

	after, err := os.ReadFile(filepath.Join(dir, core.DefaultStorageKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, stored, after, "failed import keeps the store")

	out = mustRun(t, dir, `{"Only":{"id":"x","name":"Only","rows":[]}}`, "import", "-")
	assert.Equal(t, "Imported 1 decks\n", out)
	out = mustRun(t, dir, "", "deck", "ls")
	assert.Equal(t, "* Only (0)\n", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Resume", truncate("Resume", 0))
	assert.Equal(t, "Resume", truncate("Resume", 6))
	assert.Equal(t, "Res…", truncate("Resume", 4))
	assert.Equal(t, "…", truncate("Resume", 1))
	assert.Equal(t, 0, terminalWidth(&bytes.Buffer{}))
}

func TestStatusAndVersion(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "", "status")
	var report struct {
		DataDir string `json:"data_dir"`
		Service struct {
			DeckCount int    `json:"deck_count"`
			Active    string `json:"active"`
		} `json:"service"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, dir, report.DataDir)
	assert.Equal(t, 3, report.Service.DeckCount)
	assert.Equal(t, "Welcome/Read Me", report.Service.Active)

	out = mustRun(t, dir, "", "version")
	assert.True(t, strings.HasPrefix(out, "copydeck version "), out)
}
