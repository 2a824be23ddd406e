// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"inkjet/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit from deep
// inside a RunE handler — Execute unwraps it once fang.Execute returns.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }
