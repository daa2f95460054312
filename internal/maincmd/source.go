package maincmd

import (
	"context"
	"io"
	"os"

	"github.com/mna/mainer"
)

// readSource returns src's contents as a string. src is either a file path
// or "-", meaning read from stdio.Stdin (spec.md §1's single in-memory
// source string: whichever the source, it is fully read up front before
// lexing begins).
func readSource(ctx context.Context, stdio mainer.Stdio, src string) (string, error) {
	if src == "-" {
		b, err := io.ReadAll(stdio.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(src)
	return string(b), err
}
