package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

// run executes one command against a file backend in dataDir.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("AMQP_URL", "")

	a := &app{now: func() time.Time { return fixedNow }}
	root := a.rootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env-file", dataDir+"/absent.env"))
	err := root.Execute()
	return out.String(), err
}

func TestAddListShowRemove(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "--title", "Coffee", "--amount", "3,50", "--category", "Food & Grocery")
	require.NoError(t, err)
	assert.Contains(t, out, "Added #13 Coffee")
	assert.Contains(t, out, "2026-02-12")

	out, err = run(t, dir, "list", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee")
	assert.NotContains(t, out, "Salary Deposit")

	out, err = run(t, dir, "show", "13")
	require.NoError(t, err)
	assert.Contains(t, out, "-$3.50")

	out, err = run(t, dir, "update", "13", "--notes", "oat milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated #13")

	out, err = run(t, dir, "remove", "13")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed #13")

	_, err = run(t, dir, "show", "13")
	assert.Error(t, err)
}

func TestMissingIDIsNoOp(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "remove", "999")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing removed")

	out, err = run(t, dir, "update", "999", "--title", "Ghost")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing changed")
}

func TestAddValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "add", "--title", "x", "--amount", "3")
	assert.Error(t, err)
	_, err = run(t, dir, "add", "--title", "Coffee", "--amount", "-3")
	assert.Error(t, err)
	_, err = run(t, dir, "add", "--title", "Coffee", "--amount", "3", "--date", "2026-03-01")
	assert.Error(t, err)
	_, err = run(t, dir, "update", "1")
	assert.Error(t, err)
}

func TestReports(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "$5,473.31")

	out, err = run(t, dir, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "$1,626.69")

	out, err = run(t, dir, "daily", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-02-10")
	assert.Contains(t, out, "2026-02-12")

	out, err = run(t, dir, "calendar", "--month", "2026-02")
	require.NoError(t, err)
	assert.Contains(t, out, "February 2026")
	assert.Contains(t, out, " 28")

	out, err = run(t, dir, "monthly", "--months", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Jan 26")
	assert.Contains(t, out, "Feb 26")

	_, err = run(t, dir, "calendar", "--month", "February")
	assert.Error(t, err)
}

func TestSessionCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	_, err = run(t, dir, "login", "Al")
	assert.Error(t, err)

	_, err = run(t, dir, "login", "Alex")
	require.NoError(t, err)
	out, err = run(t, dir, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello, Alex")

	_, err = run(t, dir, "logout")
	require.NoError(t, err)
	out, err = run(t, dir, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}
