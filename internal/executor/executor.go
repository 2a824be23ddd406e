// SPDX-License-Identifier: MPL-2.0

// Package executor spawns a resolved command's script under the
// appropriate interpreter, following spec.md §4.8: interpreter selection by
// language tag, shebang override, platform block preference, set -e
// emulation for shell scripts, environment injection, and exit-code
// propagation.
package executor

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"inkjet/internal/inkfile"
	"inkjet/internal/issue"
	"inkjet/pkg/fspath"
	"inkjet/pkg/platform"
	"inkjet/pkg/types"
)

// shellFamily is the set of language tags whose script runs under a
// POSIX-ish shell, and therefore fall back to the embedded mvdan.cc/sh
// interpreter when no real shell binary is on PATH.
var shellFamily = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "fish": true, "dash": true,
}

// Options carries the ambient values the Executor needs beyond the
// Command itself and its resolved argument values.
type Options struct {
	BinaryPath  string // path to the running inkjet executable
	RootInkfile string // absolute path to the topmost inkfile in the import chain
	Verbose     bool
	Stdout      *os.File
	Stderr      *os.File
	Stdin       *os.File
}

// SelectScript picks which of a command's fenced code blocks to run,
// preferring a powershell/cmd block on Windows and falling back to the
// first block declared (spec.md §4.8 "platform block selection").
func SelectScript(cmd *inkfile.Command, goos string) *inkfile.Script {
	if len(cmd.Scripts) == 0 {
		return nil
	}
	if goos == platform.Windows {
		for i := range cmd.Scripts {
			switch cmd.Scripts[i].Language {
			case "powershell", "pwsh", "cmd", "bat", "batch":
				return &cmd.Scripts[i]
			}
		}
	}
	return &cmd.Scripts[0]
}

// Run spawns cmd's selected script, blocking until it exits, and returns
// its exit code. Inkjet's own operational failures (interpreter missing,
// tempfile write failure) are returned as an *issue.ActionableError instead.
func Run(ctx context.Context, cmd *inkfile.Command, ancestors []*inkfile.Command, values map[string]string, opts Options) (int, error) {
	script := SelectScript(cmd, runtime.GOOS)
	if script == nil || script.Source == "" {
		return 0, ioError("execute command", "%q has no runnable script", strings.Join(inkfile.Path(ancestors, cmd), " "))
	}

	dir := workDir(cmd, opts)
	env := append(os.Environ(), envSlice(cmd, values, opts)...)
	stdout := firstNonNil(opts.Stdout, os.Stdout)
	stderr := firstNonNil(opts.Stderr, os.Stderr)
	stdin := firstNonNil(opts.Stdin, os.Stdin)
	log := verboseLogger(opts.Verbose, stderr)

	if script.Shebang == "" && shellFamily[script.Language] {
		if _, err := exec.LookPath(script.Language); err != nil {
			log.Debug("shell binary not on PATH, falling back to embedded interpreter", "language", script.Language)
			return runEmbeddedShell(ctx, script.Source, env, dir, stdin, stdout, stderr)
		}
	}

	program, args, cleanup, err := plan(script, opts.Verbose)
	if err != nil {
		return 0, err
	}
	defer cleanup()
	log.Debug("resolved interpreter", "program", program, "dir", dir)

	execCmd := exec.CommandContext(ctx, program, args...)
	execCmd.Dir = dir
	execCmd.Env = env
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr
	execCmd.Stdin = stdin

	if err := execCmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, ioErrorWithIssue(issue.ScriptExecutionFailedId, "execute command", "%v", err)
	}
	return 0, nil
}

// runEmbeddedShell runs a shell-family script through mvdan.cc/sh/v3 when no
// real shell binary is available on PATH — the DOMAIN STACK's sh-family
// fallback. It gets the same set -e-on-first-failure behavior as the
// exec.Command path by prepending `set -e` to the source, and reports the
// runner's exit status.
func runEmbeddedShell(ctx context.Context, source string, env []string, dir string, stdin, stdout, stderr *os.File) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(prependSetE(source)), "")
	if err != nil {
		return 0, ioErrorWithIssue(issue.ShellNotFoundId, "execute command", "parse embedded shell script: %v", err)
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(env...)),
		interp.Dir(dir),
		interp.StdIO(stdin, stdout, stderr),
	)
	if err != nil {
		return 0, ioErrorWithIssue(issue.ShellNotFoundId, "execute command", "start embedded shell: %v", err)
	}

	if err := runner.Run(ctx, file); err != nil {
		var status interp.ExitStatus
		if ok := asExitStatus(err, &status); ok {
			return int(status), nil
		}
		return 0, ioErrorWithIssue(issue.ScriptExecutionFailedId, "execute command", "%v", err)
	}
	return 0, nil
}

func asExitStatus(err error, target *interp.ExitStatus) bool {
	if status, ok := err.(interp.ExitStatus); ok {
		*target = status
		return true
	}
	return false
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

// verboseLogger returns a logger that writes structured diagnostics
// (resolved interpreter, working directory, fallback decisions) to w when
// verbose is set, and drops debug-level records otherwise — script output on
// stdout is never touched either way.
func verboseLogger(verbose bool, w *os.File) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func firstNonNil(f *os.File, fallback *os.File) *os.File {
	if f != nil {
		return f
	}
	return fallback
}

func ioError(operation, format string, args ...any) error {
	return issue.NewErrorContext(issue.KindIO).
		WithOperation(operation).
		Wrap(fmt.Errorf(format, args...)).
		BuildError()
}

// ioErrorWithIssue is ioError tagged with a specific canned fix-it guide id.
func ioErrorWithIssue(id issue.Id, operation, format string, args ...any) error {
	return issue.NewErrorContext(issue.KindIO).
		WithOperation(operation).
		WithIssue(id).
		Wrap(fmt.Errorf(format, args...)).
		BuildError()
}

// plan resolves the concrete program+args to spawn for script, honoring a
// shebang override before falling back to the language table, and returns a
// cleanup func that removes any temp file it created.
func plan(script *inkfile.Script, verbose bool) (program string, args []string, cleanup func(), err error) {
	noop := func() {}

	if script.Shebang != "" {
		fields := strings.Fields(strings.TrimPrefix(script.Shebang, "#!"))
		if len(fields) == 0 {
			return "", nil, noop, ioError("execute command", "shebang line %q names no interpreter", script.Shebang)
		}
		path, remove, werr := writeTempScript(script.Source)
		if werr != nil {
			return "", nil, noop, ioError("execute command", "write temp script: %v", werr)
		}
		return fields[0], append(fields[1:], path), remove, nil
	}

	inv, ok := languageTable[script.Language]
	if !ok {
		return "", nil, noop, ioErrorWithIssue(issue.InterpreterNotFoundId, "execute command", "no interpreter known for language %q", script.Language)
	}

	if _, lookErr := exec.LookPath(inv.program); lookErr != nil {
		return "", nil, noop, ioErrorWithIssue(issue.InterpreterNotFoundId, "execute command", "interpreter %q not found on PATH", inv.program)
	}

	if !inv.useTempFile {
		return inv.program, inv.buildArgs(script.Source), noop, nil
	}

	path, remove, werr := writeTempScript(script.Source)
	if werr != nil {
		return "", nil, noop, ioError("execute command", "write temp script: %v", werr)
	}
	return inv.program, inv.buildArgs(path), remove, nil
}

type interpreter struct {
	program     string
	useTempFile bool
	buildArgs   func(sourceOrPath string) []string
}

// languageTable implements spec.md §4.8's interpreter selection table.
var languageTable = buildLanguageTable()

func buildLanguageTable() map[string]interpreter {
	t := map[string]interpreter{}

	shell := func(name string) interpreter {
		return interpreter{program: name, buildArgs: func(source string) []string {
			return []string{"-c", prependSetE(source)}
		}}
	}
	for _, name := range []string{"sh", "bash", "zsh", "fish", "dash"} {
		t[name] = shell(name)
	}

	pwsh := interpreter{program: "pwsh", buildArgs: func(source string) []string {
		return []string{"-Command", source}
	}}
	t["powershell"] = pwsh
	t["pwsh"] = pwsh

	cmdExe := interpreter{program: "cmd", useTempFile: true, buildArgs: func(path string) []string {
		return []string{"/C", path}
	}}
	t["cmd"] = cmdExe
	t["bat"] = cmdExe
	t["batch"] = cmdExe

	t["node"] = interpreter{program: "node", buildArgs: func(source string) []string {
		return []string{"-e", source}
	}}
	t["deno"] = interpreter{program: "deno", buildArgs: func(source string) []string {
		return []string{"eval", "-T", source}
	}}

	pythonProgram := "python3"
	if runtime.GOOS == platform.Windows {
		pythonProgram = "python"
	}
	t["python"] = interpreter{program: pythonProgram, buildArgs: func(source string) []string {
		return []string{"-c", source}
	}}

	t["ruby"] = interpreter{program: "ruby", buildArgs: func(source string) []string {
		return []string{"-e", source}
	}}

	t["php"] = interpreter{program: "php", buildArgs: func(source string) []string {
		return []string{"-r", strings.TrimPrefix(strings.TrimSpace(source), "<?php")}
	}}

	t["yaegi"] = interpreter{program: "yaegi", useTempFile: true, buildArgs: func(path string) []string {
		return []string{"run", path}
	}}

	return t
}

// prependSetE makes shell-family scripts abort on the first failing
// pipeline, as if `set -e` were the script's first line.
func prependSetE(source string) string {
	return "set -e\n" + source
}

// writeTempScript names a temp file deterministically from the script's
// content hash so repeated runs of an unchanged script reuse the same
// path, then writes it executable. The caller must invoke the returned
// cleanup func on every exit path.
func writeTempScript(source string) (path string, cleanup func(), err error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	name := fmt.Sprintf("inkjet-%x.ink", h.Sum64())
	path = fspath.JoinStr(types.FilesystemPath(os.TempDir()), name).String()

	if err := os.WriteFile(path, []byte(source), 0o755); err != nil {
		return "", func() {}, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// workDir resolves the command's execution CWD per spec.md §4.8: the
// origin inkfile's directory, unless that file disabled fixed-dir.
func workDir(cmd *inkfile.Command, opts Options) string {
	if cmd.FixedDirOff {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	origin := cmd.SourceFile
	if origin == "" {
		origin = opts.RootInkfile
	}
	return fspath.Dir(types.FilesystemPath(origin)).String()
}

// envSlice builds the environment injected before spawn: every resolved
// arg/flag value plus the reserved INK/INKJET/*_DIR/INKJET_IMPORTED
// variables (spec.md §4.8).
func envSlice(cmd *inkfile.Command, values map[string]string, opts Options) []string {
	env := make([]string, 0, len(values)+5)
	for k, v := range values {
		env = append(env, k+"="+v)
	}

	origin := cmd.SourceFile
	if origin == "" {
		origin = opts.RootInkfile
	}

	ink := fmt.Sprintf("%s --inkfile %s", opts.BinaryPath, origin)
	inkjet := fmt.Sprintf("%s --inkfile %s", opts.BinaryPath, opts.RootInkfile)

	env = append(env,
		"INK="+ink,
		"INKJET="+inkjet,
		"INK_DIR="+fspath.Dir(types.FilesystemPath(origin)).String(),
		"INKJET_DIR="+fspath.Dir(types.FilesystemPath(opts.RootInkfile)).String(),
		"INKJET_IMPORTED="+strconv.FormatBool(cmd.FromImport),
	)
	return env
}
