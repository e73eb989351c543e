package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipstream/torbox/types"
)

func validateOperation(op string, allowed ...string) error {
	if slices.Contains(allowed, op) {
		return nil
	}
	return fmt.Errorf("unknown operation %q (want %s)", op, strings.Join(allowed, ", "))
}

type controlOutput struct {
	Success bool   `json:"success" yaml:"success"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Data    any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// controlResult decodes the free-form data so JSON and YAML output both
// render it structurally.
func controlResult(resp *types.Response[json.RawMessage]) controlOutput {
	if resp == nil {
		return controlOutput{}
	}
	out := controlOutput{Success: resp.Success, Detail: resp.Detail}
	if len(resp.Data) > 0 {
		var data any
		if err := json.Unmarshal(resp.Data, &data); err == nil {
			out.Data = data
		}
	}
	return out
}

func progressWriter(cmd *cobra.Command, quiet bool) io.Writer {
	if quiet {
		return nil
	}
	return cmd.ErrOrStderr()
}
