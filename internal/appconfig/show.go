// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the effective configuration summary. A nil cfg falls
// back to the supplied defaults, which is the state before any config file
// was loaded.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	effective := fallback
	if cfg != nil {
		effective = *cfg
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Results dir:     %s\n", effective.ResultsDirPath())
	fmt.Fprintf(out, "  Reports dir:     %s\n", effective.ReportsDirPath())
	if effective.GoldenPath != "" {
		fmt.Fprintf(out, "  Golden file:     %s\n", effective.GoldenPath)
	} else {
		fmt.Fprintln(out, "  Golden file:     (not set)")
	}
	if effective.ExportPath != "" {
		fmt.Fprintf(out, "  Export path:     %s\n", effective.ExportPath)
	}
	fmt.Fprintf(out, "  Server address:  %s\n", effective.ServerAddr())
	fmt.Fprintf(out, "  Server origins:  %s\n", strings.Join(effective.AllowedOrigins(), ", "))
	fmt.Fprintf(out, "  Request timeout: %s\n", effective.RequestTimeout())
	fmt.Fprintf(out, "  Log file:        %s\n", effective.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", effective.Debug)
	fmt.Fprintf(out, "  JSON mode:       %v\n", effective.JSONMode)
}
