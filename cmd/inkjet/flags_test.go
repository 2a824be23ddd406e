// SPDX-License-Identifier: MPL-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGlobalFlagsExtractsInkfileValue(t *testing.T) {
	rest, gf := parseGlobalFlags([]string{"-c", "path.md", "build", "widget"})
	assert.Equal(t, "path.md", gf.Inkfile)
	assert.Equal(t, []string{"build", "widget"}, rest)
}

func TestParseGlobalFlagsEqualsForm(t *testing.T) {
	_, gf := parseGlobalFlags([]string{"--inkfile=path.md"})
	assert.Equal(t, "path.md", gf.Inkfile)
}

func TestParseGlobalFlagsKeepsVerboseInRest(t *testing.T) {
	rest, gf := parseGlobalFlags([]string{"build", "--verbose"})
	assert.True(t, gf.Verbose)
	assert.Equal(t, []string{"build", "--verbose"}, rest)
}

func TestParseGlobalFlagsInteractivePreviewVersion(t *testing.T) {
	_, gf := parseGlobalFlags([]string{"-i", "-p", "-V"})
	assert.True(t, gf.Interactive)
	assert.True(t, gf.Preview)
	assert.True(t, gf.Version)
}

func TestContainsHelpFlag(t *testing.T) {
	assert.True(t, containsHelpFlag([]string{"widget", "--help"}))
	assert.True(t, containsHelpFlag([]string{"-h"}))
	assert.False(t, containsHelpFlag([]string{"widget"}))
}
