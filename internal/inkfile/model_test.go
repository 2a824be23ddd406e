// SPDX-License-Identifier: MPL-2.0

package inkfile

import "testing"

func TestParseFlagType(t *testing.T) {
	tests := []struct {
		in      string
		want    FlagType
		wantErr bool
	}{
		{"string", FlagTypeString, false},
		{"str", FlagTypeString, false},
		{"bool", FlagTypeBool, false},
		{"boolean", FlagTypeBool, false},
		{"number", FlagTypeNumber, false},
		{"int", FlagTypeNumber, false},
		{"float", FlagTypeNumber, false},
		{"garbage", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFlagType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFlagType(%q) expected error, got nil", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFlagType(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFlagType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSourceLocationString(t *testing.T) {
	if got := (SourceLocation{File: "inkjet.md", Line: 12}).String(); got != "inkjet.md:12" {
		t.Errorf("String() = %q, want %q", got, "inkjet.md:12")
	}
	if got := (SourceLocation{Line: 12}).String(); got != "line 12" {
		t.Errorf("String() = %q, want %q", got, "line 12")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"verbose":    "verbose",
		"dry-run":    "dry_run",
		"my-long-id": "my_long_id",
		"x":          "x",
	}
	for in, want := range tests {
		if got := EnvKey(in); got != want {
			t.Errorf("EnvKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommandMatchesName(t *testing.T) {
	c := &Command{Name: "build", Aliases: []string{"b", "default"}}
	for _, tok := range []string{"build", "b", "default"} {
		if !c.MatchesName(tok) {
			t.Errorf("MatchesName(%q) = false, want true", tok)
		}
	}
	if c.MatchesName("nope") {
		t.Errorf("MatchesName(%q) = true, want false", "nope")
	}
}

func TestCommandDefaultChild(t *testing.T) {
	def := &Command{Name: "all", Aliases: []string{"default"}}
	c := &Command{Children: []*Command{{Name: "one"}, def}}
	if got := c.DefaultChild(); got != def {
		t.Errorf("DefaultChild() = %v, want %v", got, def)
	}
	if got := (&Command{}).DefaultChild(); got != nil {
		t.Errorf("DefaultChild() on childless command = %v, want nil", got)
	}
}

func TestScriptExecutable(t *testing.T) {
	var nilScript *Script
	if nilScript.Executable() {
		t.Error("nil Script.Executable() = true, want false")
	}
	if (&Script{}).Executable() {
		t.Error("empty Script.Executable() = true, want false")
	}
	if !(&Script{Source: "echo hi"}).Executable() {
		t.Error("Script with Source.Executable() = false, want true")
	}
}

func TestEnsureImplicitVerbose(t *testing.T) {
	c := &Command{}
	c.EnsureImplicitVerbose()
	if len(c.Flags) != 1 || c.Flags[0].Long != "verbose" || !c.Flags[0].Implicit {
		t.Fatalf("EnsureImplicitVerbose did not add implicit verbose flag: %+v", c.Flags)
	}

	explicit := &Command{Flags: []Flag{{Long: "verbose", Short: "V"}}}
	explicit.EnsureImplicitVerbose()
	if len(explicit.Flags) != 1 || explicit.Flags[0].Implicit {
		t.Fatalf("EnsureImplicitVerbose overrode explicit verbose flag: %+v", explicit.Flags)
	}
}

func TestPath(t *testing.T) {
	root := &Command{Name: "services"}
	child := &Command{Name: "stop"}
	got := Path([]*Command{root}, child)
	want := []string{"services", "stop"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Path() = %v, want %v", got, want)
	}
}
