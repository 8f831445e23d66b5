// Command toolboxd serves the tool registry over HTTP and offers local access to
// the same tools from the shell.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skosovsky/toolbox/internal/buildinfo"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// version is resolved once so --version and the version command agree.
var version = buildinfo.Get().Version
