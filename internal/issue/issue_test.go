// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		InkfileNotFoundId,
		InkfileParseErrorId,
		CommandNotFoundId,
		InterpreterNotFoundId,
		ShellNotFoundId,
		AmbiguousAliasId,
		DuplicateFlagId,
		InvalidFlagValueId,
		ScriptExecutionFailedId,
		ImportCycleId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if InkfileNotFoundId != 1 {
		t.Errorf("InkfileNotFoundId = %d, want 1", InkfileNotFoundId)
	}
}

func TestIssue_Id(t *testing.T) {
	issue := Get(InkfileNotFoundId)
	if issue == nil {
		t.Fatal("Get(InkfileNotFoundId) returned nil")
	}

	if issue.Id() != InkfileNotFoundId {
		t.Errorf("issue.Id() = %d, want %d", issue.Id(), InkfileNotFoundId)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(InkfileNotFoundId)
	if issue == nil {
		t.Fatal("Get(InkfileNotFoundId) returned nil")
	}

	msg := issue.MarkdownMsg()
	if msg == "" {
		t.Error("MarkdownMsg() returned empty string")
	}

	if !strings.Contains(string(msg), "No inkfile found") {
		t.Error("MarkdownMsg() should contain 'No inkfile found'")
	}
}

func TestIssue_DocLinks(t *testing.T) {
	issue := Get(InkfileNotFoundId)
	if issue == nil {
		t.Fatal("Get(InkfileNotFoundId) returned nil")
	}

	links := issue.DocLinks()
	if links == nil {
		return
	}

	if len(links) > 0 {
		original := links[0]
		links[0] = "modified"
		newLinks := issue.DocLinks()
		if len(newLinks) > 0 && newLinks[0] != original {
			t.Error("DocLinks() should return a clone")
		}
	}
}

func TestIssue_ExtLinks(t *testing.T) {
	issue := Get(InkfileNotFoundId)
	if issue == nil {
		t.Fatal("Get(InkfileNotFoundId) returned nil")
	}

	links := issue.ExtLinks()
	if links == nil {
		return
	}

	if len(links) > 0 {
		original := links[0]
		links[0] = "modified"
		newLinks := issue.ExtLinks()
		if len(newLinks) > 0 && newLinks[0] != original {
			t.Error("ExtLinks() should return a clone")
		}
	}
}

func TestIssue_Render(t *testing.T) {
	issue := Get(InkfileNotFoundId)
	if issue == nil {
		t.Fatal("Get(InkfileNotFoundId) returned nil")
	}

	rendered := issue.Render()
	if rendered == "" {
		t.Error("Render() returned empty string")
	}

	if !strings.Contains(rendered, "inkfile") {
		t.Error("Render() output should contain 'inkfile'")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{InkfileNotFoundId, false, "No inkfile found"},
		{InkfileParseErrorId, false, "Failed to parse inkfile"},
		{CommandNotFoundId, false, "Command not found"},
		{InterpreterNotFoundId, false, "Interpreter not found"},
		{ShellNotFoundId, false, "Shell not found"},
		{AmbiguousAliasId, false, "Ambiguous alias"},
		{DuplicateFlagId, false, "Duplicate flag name"},
		{InvalidFlagValueId, false, "Invalid flag value"},
		{ScriptExecutionFailedId, false, "Script execution failed"},
		{ImportCycleId, false, "Import cycle detected"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}

			if tt.contains != "" && !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain '%s'", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	if len(issues) == 0 {
		t.Fatal("Values() returned empty slice")
	}

	expectedCount := 10

	if len(issues) != expectedCount {
		t.Errorf("Values() returned %d issues, want %d", len(issues), expectedCount)
	}

	for _, issue := range issues {
		if issue.Id() == 0 {
			t.Error("found issue with ID 0")
		}
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered := testIssue.Render()

	if !strings.Contains(rendered, "See also") {
		t.Error("Render() with links should contain 'See also'")
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	testIssue := &Issue{
		id:    Id(9998),
		mdMsg: "# Test Issue\n\nNo links here.",
	}

	rendered := testIssue.Render()

	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestMarkdownMsg_Type(t *testing.T) {
	msg := MarkdownMsg("# Hello\n\nWorld")

	if string(msg) != "# Hello\n\nWorld" {
		t.Errorf("MarkdownMsg string conversion failed")
	}
}

func TestHttpLink_Type(t *testing.T) {
	link := HttpLink("https://example.com")

	if string(link) != "https://example.com" {
		t.Errorf("HttpLink string conversion failed")
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	issues := Values()

	for _, issue := range issues {
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	issues := Values()

	for _, issue := range issues {
		rendered := issue.Render()
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}

func TestIssuesMapCompleteness(t *testing.T) {
	expectedIds := []Id{
		InkfileNotFoundId,
		InkfileParseErrorId,
		CommandNotFoundId,
		InterpreterNotFoundId,
		ShellNotFoundId,
		AmbiguousAliasId,
		DuplicateFlagId,
		InvalidFlagValueId,
		ScriptExecutionFailedId,
		ImportCycleId,
	}

	for _, id := range expectedIds {
		issue := Get(id)
		if issue == nil {
			t.Errorf("Issue with ID %d is not in the issues map", id)
		}
	}
}
