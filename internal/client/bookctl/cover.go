package bookctl

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/dmitrijs2005/bookapi/internal/netx"
	"github.com/gabriel-vasile/mimetype"
)

const tokenEnv = "BOOKAPI_TOKEN"

type coverUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadCover asks the server for a presigned upload URL for a book and
// PUTs the image file to it.
func (a *App) UploadCover(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload-cover", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	server := fs.String("server", "http://localhost:8080", "bookapi base URL")
	token := fs.String("token", "", "bearer token (default $"+tokenEnv+")")
	isbn := fs.String("isbn", "", "book ISBN")
	file := fs.String("file", "", "path to the cover image")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	if *isbn == "" || *file == "" {
		fmt.Fprintln(a.stderr, "-isbn and -file are required")
		return ErrUsage
	}
	if *token == "" {
		*token = a.getenv(tokenEnv)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read cover: %w", err)
	}

	endpoint := strings.TrimRight(*server, "/") + "/api/books/" + url.PathEscape(*isbn) + "/cover"
	var up coverUpload
	if err := netx.DoJSON(ctx, a.client, http.MethodPost, endpoint, *token, nil, &up); err != nil {
		return fmt.Errorf("request upload url: %w", err)
	}

	if err := netx.UploadToS3PresignedURL(ctx, a.client, up.URL, data, mimetype.Detect(data).String()); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "uploaded %d bytes as %s\n", len(data), up.Key)
	return nil
}
