// Command webp2png converts a directory of WebP images to PNG.
package main

import (
	"os"

	"github.com/roboco-io/webpconv/internal/cli"
	"github.com/roboco-io/webpconv/internal/encoder"
)

// Set by -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute(encoder.FormatPNG))
}
