// internal/cli/browse_test.go
package accord

import (
	"testing"

	"github.com/mwiater/accord/internal/appconfig"
)

// TestBrowseCmd verifies that the browse command hands the merged
// configuration to the terminal browser.
func TestBrowseCmd(t *testing.T) {
	originalStartBrowser := startBrowser
	originalConfig := currentConfig
	defer func() {
		startBrowser = originalStartBrowser
		currentConfig = originalConfig
	}()

	currentConfig = &appconfig.Config{ResultsDir: "testdata"}

	startCalled := false
	var receivedCfg *appconfig.Config
	startBrowser = func(cfg *appconfig.Config) {
		startCalled = true
		receivedCfg = cfg
	}

	browseCmd.Run(browseCmd, []string{})

	if !startCalled {
		t.Fatal("expected startBrowser to be invoked")
	}
	if receivedCfg == nil {
		t.Fatal("expected to receive a config instance")
	}
	if receivedCfg != getConfig() {
		t.Fatal("expected startBrowser to receive the loaded configuration")
	}
}
