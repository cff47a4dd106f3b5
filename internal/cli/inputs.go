// internal/cli/inputs.go
package accord

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/util"
	"github.com/spf13/cobra"
)

// loadInputs loads annotation result files from the explicit paths when any
// were given, otherwise from every *.json directly under dir.
func loadInputs(dir string, paths []string) ([]*annotation.ResultFile, error) {
	if len(paths) > 0 {
		return annotation.LoadResultFiles(paths)
	}
	return annotation.LoadDir(dir)
}

// ensureDir creates a directory (and parents) if it does not exist.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create directory %s: %w", dir, err)
	}
	return nil
}

// writeJSON marshals v with indentation and writes it to path, creating the
// parent directory when needed.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}

	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write analysis JSON %s: %w", path, err)
	}
	return nil
}

// emitJSON prints v as indented JSON on the command's stdout. Used by every
// analysis command when jsonMode is on.
func emitJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// debugDump pretty-prints an in-memory structure when --debug is set.
func debugDump(v any) {
	if !DebugEnabled() {
		return
	}
	pp.Println(v)
}
