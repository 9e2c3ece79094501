// Package bookctl implements the bookapi admin tool: hashing passwords into
// the stored secret format, minting bearer tokens, generating signing keys
// and uploading cover images through presigned URLs.
package bookctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/bookapi/internal/buildinfo"
)

var ErrUsage = errors.New("usage error")

const usage = `usage: bookctl <command> [flags]

commands:
  hash          read a password and print its stored secret
  token         mint a bearer token signed with the server key
  keygen        print a random hex signing key
  upload-cover  upload a cover image for a book
  version       print build information
`

type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	client *http.Client
}

func NewApp(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		getenv: os.Getenv,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Run dispatches args[0] to a command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "hash":
		return a.Hash(ctx, rest)
	case "token":
		return a.Token(rest)
	case "keygen":
		return a.Keygen(rest)
	case "upload-cover":
		return a.UploadCover(ctx, rest)
	case "version":
		buildinfo.PrintBuildData(a.stdout)
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}
}
