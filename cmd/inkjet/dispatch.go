// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"runtime"

	"inkjet/internal/clibuild"
	"inkjet/internal/executor"
	"inkjet/internal/inkfile"
	"inkjet/internal/pipeline"
	"inkjet/internal/render"
	"inkjet/internal/resolver"
	"inkjet/pkg/types"
)

// newExecutor builds the clibuild.Executor callback run once cobra has
// navigated argv down to a command node: it finishes resolution (default
// children, arg/flag binding against tail), then previews, narrates, or
// spawns the script depending on the global flags carried in pctx
// (spec.md §4.7-§4.8).
func newExecutor(pctx *pipeline.Context) clibuild.Executor {
	return func(ctx context.Context, node *inkfile.Command, ancestors []*inkfile.Command, tail []string) error {
		if containsHelpFlag(tail) {
			return clibuild.ErrShowHelp
		}

		inv, err := resolver.ResolveNode(node, ancestors, tail)
		if err != nil {
			return err
		}
		if inv.ShowHelp {
			return clibuild.ErrShowHelp
		}

		if pctx.Interactive {
			narrate(pctx, inv.Command)
		}

		script := executor.SelectScript(inv.Command, runtime.GOOS)
		if pctx.Preview {
			fmt.Fprintln(pctx.Stderr, WarningStyle.Render("preview: script will not be executed"))
			return executor.Preview(pctx.Stdout, script)
		}

		opts := executor.Options{
			BinaryPath:  pctx.BinaryPath,
			RootInkfile: pctx.InkfilePath,
			Verbose:     pctx.Verbose,
			Stdout:      pctx.Stdout,
			Stderr:      pctx.Stderr,
			Stdin:       pctx.Stdin,
		}
		code, err := executor.Run(ctx, inv.Command, inv.Ancestors, inv.Values, opts)
		if err != nil {
			return err
		}
		if code != 0 {
			return &ExitError{Code: types.ExitCode(code)}
		}
		if pctx.Verbose {
			fmt.Fprintln(pctx.Stderr, SuccessStyle.Render("done"))
		}
		return nil
	}
}

// narrate renders a command's description through the rich-text collaborator
// before it runs, per spec.md §4.7's interactive mode. Inkjet carries no
// TTY-prompting backend (spec.md §1 lists it as an external collaborator),
// so the declared arg/flag defaults resolver already bound are used as-is
// rather than genuinely prompted for.
func narrate(pctx *pipeline.Context, cmd *inkfile.Command) {
	if cmd.Short == "" && cmd.Long == "" {
		return
	}
	if cmd.Short != "" {
		fmt.Fprintln(pctx.Stderr, TitleStyle.Render(cmd.Short.String()))
	}
	if cmd.Long == "" {
		return
	}
	r := render.NewRenderer(pctx.NoColor, 0)
	out, err := r.Render(cmd.Long.String())
	if err != nil {
		out = SubtitleStyle.Render(cmd.Long.String())
	}
	fmt.Fprint(pctx.Stderr, out)
}
