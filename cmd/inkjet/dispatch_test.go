// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkjet/internal/clibuild"
	"inkjet/internal/inkfile"
	"inkjet/internal/pipeline"
)

func mustParse(t *testing.T, src string) *inkfile.CommandTree {
	t.Helper()
	tree, err := inkfile.Parse([]byte(src), "inkjet.md", true)
	require.NoError(t, err)
	return tree
}

func testContext(t *testing.T) *pipeline.Context {
	t.Helper()
	return pipeline.New(false, false, false, "", "", "inkjet")
}

func TestNewExecutorRunsScript(t *testing.T) {
	tree := mustParse(t, "## greet\n\n```sh\necho hello\n```\n")
	pctx := testContext(t)

	root := clibuild.Build(tree, newExecutor(pctx))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"greet"})

	assert.NoError(t, root.Execute())
}

func TestNewExecutorShowsHelpForBareGroup(t *testing.T) {
	tree := mustParse(t, "## services\n\n### services stop\n\n```\necho stop\n```\n")
	pctx := testContext(t)

	root := clibuild.Build(tree, newExecutor(pctx))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"services"})

	require.NoError(t, root.Execute())
	assert.NotZero(t, out.Len(), "expected services' help text on stdout for a bare group invocation")
}

func TestNewExecutorHonorsHelpFlagUnderDisabledFlagParsing(t *testing.T) {
	tree := mustParse(t, "## greet\n\n```sh\necho hello\n```\n")
	pctx := testContext(t)

	root := clibuild.Build(tree, newExecutor(pctx))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"greet", "--help"})

	require.NoError(t, root.Execute())
	assert.NotZero(t, out.Len(), "expected greet's help text on stdout for --help")
}

func TestNewExecutorReturnsExitErrorOnNonZeroScript(t *testing.T) {
	tree := mustParse(t, "## fail\n\n```sh\nexit 3\n```\n")
	pctx := testContext(t)

	root := clibuild.Build(tree, newExecutor(pctx))
	root.SetArgs([]string{"fail"})

	err := root.Execute()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "want *ExitError, got %v (%T)", err, err)
	assert.EqualValues(t, 3, exitErr.Code)
}

func TestNewExecutorMatchesClibuildExecutorType(t *testing.T) {
	var _ clibuild.Executor = newExecutor(testContext(t))
}
