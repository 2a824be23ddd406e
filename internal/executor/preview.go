// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bytes"
	"io"
	"os/exec"

	"inkjet/internal/inkfile"
)

// Preview renders script's source for `--preview`, piping it through the
// external `bat` syntax highlighter when it's discoverable on PATH and
// falling back to printing the raw source otherwise. This mirrors the
// fallback ladder the original executor's preview path implements: bat
// missing prints raw and reports success; bat present but failing mid-stream
// still prints what it produced and reports failure.
func Preview(w io.Writer, script *inkfile.Script) error {
	if script == nil || script.Source == "" {
		return nil
	}

	batPath, err := exec.LookPath("bat")
	if err != nil {
		_, werr := io.WriteString(w, script.Source)
		return werr
	}

	lang := script.Language
	if lang == "" {
		lang = "sh"
	}

	batCmd := exec.Command(batPath, "--language", lang, "--style", "plain", "--paging", "never")
	batCmd.Stdin = bytes.NewBufferString(script.Source)

	out, runErr := batCmd.Output()
	if len(out) > 0 {
		if _, werr := w.Write(out); werr != nil {
			return werr
		}
	}
	if runErr != nil {
		return ioError("preview command", "bat: %v", runErr)
	}
	return nil
}
