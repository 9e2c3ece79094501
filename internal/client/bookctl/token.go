package bookctl

import (
	"errors"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/auth"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
)

const jwtKeyEnv = "BOOKAPI_JWT_KEY"

// Token mints a bearer token for a username, signed with the server key.
func (a *App) Token(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user := fs.String("u", "", "username (token subject)")
	email := fs.String("e", "", "email claim")
	key := fs.String("k", "", "signing key (default $"+jwtKeyEnv+")")
	issuer := fs.String("iss", "BookAPI", "token issuer")
	audience := fs.String("aud", "BookAPIUsers", "token audience")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	if *user == "" {
		fmt.Fprintln(a.stderr, "-u is required")
		return ErrUsage
	}
	if *key == "" {
		*key = a.getenv(jwtKeyEnv)
	}

	issuerSvc, err := auth.NewIssuer(auth.TokenConfig{Key: []byte(*key), Issuer: *issuer, Audience: *audience})
	if err != nil {
		if errors.Is(err, common.ErrConfiguration) {
			return fmt.Errorf("%w (set -k or %s)", err, jwtKeyEnv)
		}
		return err
	}

	tok, err := issuerSvc.Issue(&models.Account{Username: *user, Email: *email})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, tok)
	return nil
}

// Keygen prints a random hex key suitable for the server signing key.
func (a *App) Keygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	size := fs.Int("n", 32, "key size in bytes")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *size < 16 {
		fmt.Fprintln(a.stderr, "-n must be at least 16")
		return ErrUsage
	}

	key, err := common.MakeRandHexString(*size)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, key)
	return nil
}
