package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const journalFixture = `# Alice receives one ore, then a second session is cancelled.
{"kind":"target","ref":42}
{"kind":"begin"}
{"kind":"slot_item","side":"self","slot":0,"item":5000,"qty":1}
{"kind":"surface","side":"self","slot":0,"qty":1}
{"kind":"money","side":"self","amount":1000}
{"kind":"confirm","side":"self","confirmed":true}
{"kind":"confirm","side":"peer","confirmed":true}
{"kind":"final_confirm"}
{"kind":"complete"}
{"kind":"begin","ref":42}
{"kind":"slot_item","base":"0x1000","addr":"0x1360","raw_item":1007000,"qty":2}
{"kind":"cancel"}
{"kind":"cancel"}
`

type historyJSONEntry struct {
	ID           string
	Completed    bool
	Counterparty string
	GilGiven     uint32
	ItemsGiven   []struct{ Name string }
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestPlayerAddThenList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "player", "add", "--ref", "42", "--name", "Alice", "--world", "Gaia")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved player Alice@Gaia (ref 42)")

	stdout, _, err = executeCLI(t, home, "player", "list")
	require.NoError(t, err)
	assert.Equal(t, "42\tAlice@Gaia\n", stdout)
}

func TestPlayerAddRequiresName(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "player", "add", "--ref", "42", "--world", "Gaia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "name" not set`)
}

func TestItemAddThenList(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "item", "add", "--id", "5000", "--name", "Iron Ore", "--stack", "999")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "item", "list")
	require.NoError(t, err)
	assert.Equal(t, "5000\tIron Ore\tstack 999\n", stdout)
}

func TestHistoryRequiresConfiguredIdentity(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity.name and identity.world must be configured")
}

func TestInvalidConfigFailsEveryCommand(t *testing.T) {
	home := t.TempDir()
	writeFixture(t, home, "config.toml", "[log]\nlevel = \"loud\"\n")

	_, _, err := executeCLI(t, home, "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestReplayRecordsHistory(t *testing.T) {
	home := t.TempDir()
	journalPath := writeTradeFixtures(t, home)

	stdout, _, err := executeCLI(t, home, "replay", journalPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Alice@Gaia")
	assert.Contains(t, stdout, "Iron Ore")
	assert.Contains(t, stdout, "[cancelled]")
	assert.Contains(t, stdout, "replayed: 13 lines")
	assert.Contains(t, stdout, "1 ignored")

	assert.FileExists(t, filepath.Join(home, ".cashier", "history", "Gaia_Me.jsonl"))

	entries := listHistoryJSON(t, home)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Completed)
	assert.Equal(t, "Alice@Gaia", entries[0].Counterparty)
	assert.Equal(t, uint32(1000), entries[0].GilGiven)
	require.Len(t, entries[0].ItemsGiven, 1)
	assert.Equal(t, "Iron Ore", entries[0].ItemsGiven[0].Name)
	assert.False(t, entries[1].Completed)
}

func TestReplayQuietPrintsNothing(t *testing.T) {
	home := t.TempDir()
	journalPath := writeTradeFixtures(t, home)

	stdout, _, err := executeCLI(t, home, "replay", "--quiet", journalPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Len(t, listHistoryJSON(t, home), 2)
}

func TestReplayMissingJournal(t *testing.T) {
	home := t.TempDir()
	writeTradeFixtures(t, home)

	_, _, err := executeCLI(t, home, "replay", filepath.Join(home, "missing.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open journal")
}

func TestReplayTwiceAppendsHistory(t *testing.T) {
	home := t.TempDir()
	journalPath := writeTradeFixtures(t, home)

	_, _, err := executeCLI(t, home, "replay", "--quiet", journalPath)
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "replay", "--quiet", journalPath)
	require.NoError(t, err)

	assert.Len(t, listHistoryJSON(t, home), 4)
}

func TestHistoryListRendersLog(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)

	stdout, _, err := executeCLI(t, home, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Trade History - Gaia_Me")
	assert.Contains(t, stdout, "entries: 2")
}

func TestHistoryListFiltersByTarget(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)

	stdout, _, err := executeCLI(t, home, "history", "list", "--target", "Bob@Gaia")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entries: 0")
	assert.Contains(t, stdout, "No trades recorded.")
}

func TestHistoryTargets(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)

	stdout, _, err := executeCLI(t, home, "history", "targets")
	require.NoError(t, err)
	assert.Contains(t, stdout, "partners: 1")
	assert.Contains(t, stdout, "Alice@Gaia")
}

func TestHistoryDelete(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		removed string
		left    int
	}{
		{name: "unknown target", args: []string{"--target", "Bob@Gaia"}, removed: "Deleted 0 entries", left: 2},
		{name: "by target", args: []string{"--target", "Alice@Gaia"}, removed: "Deleted 2 entries", left: 0},
		{name: "all", args: []string{"--all"}, removed: "Deleted 2 entries", left: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			replayFixture(t, home)

			stdout, _, err := executeCLI(t, home, append([]string{"history", "delete"}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.removed)
			assert.Len(t, listHistoryJSON(t, home), tt.left)
		})
	}
}

func TestHistoryDeleteNeedsScope(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)

	_, _, err := executeCLI(t, home, "history", "delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --target or --all")
}

func TestHistoryExportWritesCSV(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)
	path := filepath.Join(home, "trades")

	stdout, _, err := executeCLI(t, home, "history", "export", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path+".csv")

	data, err := os.ReadFile(path + ".csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Time","Status","Counterparty","Gil Given","Gil Received","Items Given","Items Received"`, lines[0])
	assert.Contains(t, lines[1], `"true","Alice@Gaia","1,000","0","Iron Orex1"`)
}

func TestHistoryDismissRemovesEntry(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)

	entries := listHistoryJSON(t, home)
	require.Len(t, entries, 2)

	stdout, _, err := executeCLI(t, home, "history", "dismiss", entries[1].ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dismissed "+entries[1].ID)

	left := listHistoryJSON(t, home)
	require.Len(t, left, 1)
	assert.Equal(t, entries[0].ID, left[0].ID)
}

func TestHistoryDismissUnknownID(t *testing.T) {
	home := t.TempDir()
	replayFixture(t, home)

	_, _, err := executeCLI(t, home, "history", "dismiss", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history entry not found")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFixture(t *testing.T, home, name, content string) string {
	t.Helper()

	dir := filepath.Join(home, ".cashier")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeTradeFixtures configures the local character, a player, two items
// and a journal, and returns the journal path.
func writeTradeFixtures(t *testing.T, home string) string {
	t.Helper()

	writeFixture(t, home, "config.toml", `[identity]
name = "Me"
world = "Gaia"
object_ref = 1

[log]
level = "error"
`)
	writeFixture(t, home, "players.toml", `version = 1

[[players]]
ref = 42
name = "Alice"
world = "Gaia"
`)
	writeFixture(t, home, "items.toml", `version = 1

[[items]]
id = 5000
name = "Iron Ore"
stack_size = 999

[[items]]
id = 7000
name = "Cotton Boll"
stack_size = 99
`)

	path := filepath.Join(home, "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(journalFixture), 0o600))
	return path
}

func replayFixture(t *testing.T, home string) {
	t.Helper()

	journalPath := writeTradeFixtures(t, home)
	_, _, err := executeCLI(t, home, "replay", "--quiet", journalPath)
	require.NoError(t, err)
}

func listHistoryJSON(t *testing.T, home string) []historyJSONEntry {
	t.Helper()

	stdout, _, err := executeCLI(t, home, "history", "list", "--json")
	require.NoError(t, err)

	var entries []historyJSONEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	return entries
}
