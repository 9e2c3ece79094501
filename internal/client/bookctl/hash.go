package bookctl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/auth"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Hash prints the stored secret of a password. By default the password is
// read twice from the terminal without echo; -stdin reads one line instead.
func (a *App) Hash(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fromStdin := fs.Bool("stdin", false, "read the password from the first line of stdin")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var (
		pw  []byte
		err error
	)
	if *fromStdin {
		pw, err = a.readLine()
	} else {
		pw, err = a.promptPassword()
	}
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 {
		return errors.New("empty password")
	}

	stored, err := auth.NewHasher(1).Hash(ctx, string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, stored)
	return nil
}

func (a *App) readLine() ([]byte, error) {
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func (a *App) promptPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())

	fmt.Fprint(a.stderr, "Enter password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(a.stderr)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(a.stderr, "Repeat password: ")
	again, err := readPassword(fd)
	fmt.Fprintln(a.stderr)
	defer common.WipeByteArray(again)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}

	if !bytes.Equal(pw, again) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
