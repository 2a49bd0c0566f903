package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGenDocs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "frontdesk"}
	root.AddCommand(NewSystemCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"system", "gendocs"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestGenDocs(t *testing.T) {
	dir := t.TempDir()

	_, err := runGenDocs(t, "--outdir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "frontdesk_system_gendocs.md"))

	manDir := filepath.Join(dir, "man")
	_, err = runGenDocs(t, "--outdir", manDir, "--format", "man")
	require.NoError(t, err)
	entries, err := os.ReadDir(manDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	_, err = runGenDocs(t, "--outdir", dir, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown docs format")
}
