// SPDX-License-Identifier: MPL-2.0

package completion

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoot() *cobra.Command {
	root := &cobra.Command{Use: "inkjet"}
	root.AddCommand(&cobra.Command{Use: "build", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(Command())
	return root
}

func TestWriteBashProducesCompletionScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testRoot(), "bash"))
	assert.Contains(t, buf.String(), "bash completion")
}

func TestWriteFishProducesCompletionScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testRoot(), "fish"))
	assert.NotZero(t, buf.Len())
}

func TestWriteUnsupportedShellErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, testRoot(), "powershell"))
}

func TestCommandIsHiddenFromHelp(t *testing.T) {
	cmd := Command()
	assert.True(t, cmd.Hidden)
	assert.Equal(t, CommandName+" <shell>", cmd.Use)
}

func TestCommandRunEWritesToStdout(t *testing.T) {
	root := testRoot()
	root.SetArgs([]string{CommandName, "bash"})
	var out bytes.Buffer
	root.SetOut(&out)
	require.NoError(t, root.Execute())
	assert.NotZero(t, out.Len())
}
