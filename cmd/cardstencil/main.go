// CardStencil renders ID cards from a background template and a CSV.
//
// Usage:
//
//	cardstencil init
//	cardstencil generate [--csv <file>] [--photos <dir>] [--out <dir>]
//	cardstencil render --first <name> --last <name> [-o <file>]
//	cardstencil layout
//	cardstencil serve [--port 8080]
package main

import (
	"os"

	"github.com/xob0t/CardStencil/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
