// cmd/accord/main.go
package main

import (
	cmd "github.com/mwiater/accord/internal/cli"
)

// executeCmd runs the accord root command. It is a variable so the wiring
// test can swap it out.
var executeCmd = cmd.Execute

// main starts the accord CLI application by delegating to the cobra root
// command defined in the accord package. It does not take any arguments and
// does not return a value.
func main() {
	executeCmd()
}
