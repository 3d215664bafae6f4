package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"landora/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t       *testing.T
	storage string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, storage: filepath.Join(t.TempDir(), "admin.json")}
}

func (c *cli) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(args, c.storage, &stdout, &stderr, log)
	return stdout.String(), stderr.String(), err
}

var createdID = regexp.MustCompile(`Created property (\d+)`)

func TestCLI_Lifecycle(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("add", "--name", "Beach Cottage", "--location", "Goa", "--price", "500000", "--description", "Sea view")
	require.NoError(t, err)
	m := createdID.FindStringSubmatch(out)
	require.Len(t, m, 2)
	id := m[1]

	_, _, err = c.run("add", "--name", "Lake House", "--location", "Udaipur", "--price", "820000", "--description", "Quiet", "--available=false")
	require.NoError(t, err)

	out, _, err = c.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Beach Cottage")
	assert.Contains(t, out, "Not Available")

	out, _, err = c.run("search", "lake")
	require.NoError(t, err)
	assert.Contains(t, out, "Lake House")
	assert.NotContains(t, out, "Beach Cottage")

	out, _, err = c.run("show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Buyer ID:")
	assert.Contains(t, out, "N/A")

	out, _, err = c.run("edit", id, "--price", "550000")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated property "+id)
	out, _, err = c.run("show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "550000")
	assert.Contains(t, out, "Sea view")

	out, _, err = c.run("delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted property "+id)

	_, _, err = c.run("show", id)
	assert.Error(t, err)
}

func TestCLI_InvalidForm(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("add", "--name", "123", "--location", "Goa", "--price", "-5", "--description", "Sea view")
	require.Error(t, err)
	assert.Contains(t, stderr, "Name must contain only letters and spaces")
	assert.Contains(t, stderr, "Price must be a positive number")

	out, _, err := c.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No properties found")
}

func TestCLI_Report(t *testing.T) {
	c := newCLI(t)
	output := filepath.Join(t.TempDir(), report.DefaultFilename)

	_, _, err := c.run("report", "--output", output)
	assert.ErrorIs(t, err, report.ErrEmptyReport)
	assert.NoFileExists(t, output)

	_, _, err = c.run("add", "--name", "Beach Cottage", "--location", "Goa", "--price", "500000", "--description", "Sea view")
	require.NoError(t, err)

	out, _, err := c.run("report", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 properties")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCLI_Usage(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run()
	assert.ErrorIs(t, err, errUsage)

	_, stderr, err := c.run("frobnicate")
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "unknown command")

	_, _, err = c.run("--storage", c.storage, "list")
	assert.NoError(t, err)
}
