// Package resetter implements the stats resetter component.
// The stats resetter overwrites the usage statistics file stored in a gist with an empty JSON
// array and reports the outcome to the operator.
package resetter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ubuntu/decorate"
	"github.com/xmsleep/stats-reset/internal/constants"
	"github.com/xmsleep/stats-reset/internal/gist"
)

// ErrEmptyGistID is returned when the passed gist ID is incorrectly an empty string.
var ErrEmptyGistID = errors.New("gist ID cannot be an empty string")

type gistUpdater interface {
	Endpoint(gistID string) (string, error)
	Update(ctx context.Context, gistID string, body gist.UpdateRequest) error
}

// Resetter resets the stats file of a single gist.
type Resetter struct {
	client gistUpdater
	gistID string

	description string
	fileName    string
	dryRun      bool
	out         io.Writer
	log         *slog.Logger
}

type options struct {
	description string
	fileName    string
	dryRun      bool
	out         io.Writer
	log         *slog.Logger
}

// Options represents an optional function to override Resetter default values.
type Options func(*options)

// WithDescription sets the gist description written with the reset. Empty keeps the default.
func WithDescription(d string) Options {
	return func(o *options) {
		if d != "" {
			o.description = d
		}
	}
}

// WithFileName sets the name of the stats file in the gist. Empty keeps the default.
func WithFileName(name string) Options {
	return func(o *options) {
		if name != "" {
			o.fileName = name
		}
	}
}

// WithDryRun only prints the request that would be sent.
func WithDryRun(dryRun bool) Options {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// WithOutput sets where the outcome is reported. Defaults to stdout.
func WithOutput(w io.Writer) Options {
	return func(o *options) {
		o.out = w
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.log = l
	}
}

// New returns a Resetter updating gistID through client.
func New(client gistUpdater, gistID string, args ...Options) (Resetter, error) {
	slog.Debug("Creating new stats resetter", "gist", gistID)

	if gistID == "" {
		return Resetter{}, ErrEmptyGistID
	}

	opts := options{
		description: constants.DefaultDescription,
		fileName:    constants.DefaultStatsFile,
		out:         os.Stdout,
		log:         slog.Default(),
	}
	for _, opt := range args {
		opt(&opts)
	}
	opts.log = opts.log.With("gist", gistID)

	return Resetter{
		client: client,
		gistID: gistID,

		description: opts.description,
		fileName:    opts.fileName,
		dryRun:      opts.dryRun,
		out:         opts.out,
		log:         opts.log,
	}, nil
}

// Do overwrites the stats file with an empty JSON array and returns the content written.
//
// A rejection by GitHub is returned as a *gist.APIError and a request which could not complete
// wraps gist.ErrTransport. In dry run mode nothing is sent.
func (r Resetter) Do(ctx context.Context) (content string, err error) {
	defer decorate.OnError(&err, "stats reset failed")

	req, err := r.request()
	if err != nil {
		return "", err
	}
	content = req.Files[r.fileName].Content

	if r.dryRun {
		r.log.Info("Dry run, skipping gist update")
		return content, nil
	}

	if err := r.client.Update(ctx, r.gistID, req); err != nil {
		return "", err
	}
	return content, nil
}

// Reset runs Do and reports the outcome. It returns true only when the stats file was reset,
// or would have been in dry run mode.
//
// Failures are never propagated: they are printed, with the status code and raw response body
// when GitHub rejected the update.
func (r Resetter) Reset(ctx context.Context) bool {
	fmt.Fprintln(r.out, "Clearing stats...")

	if r.dryRun {
		if err := r.preview(); err != nil {
			fmt.Fprintf(r.out, "❌ An error occurred: %v\n", err)
			return false
		}
	}

	content, err := r.Do(ctx)
	var apiErr *gist.APIError
	switch {
	case errors.As(err, &apiErr):
		r.log.Warn("GitHub rejected the gist update", "status", apiErr.StatusCode)
		fmt.Fprintf(r.out, "❌ Reset failed: %d\n", apiErr.StatusCode)
		fmt.Fprintf(r.out, "   Error: %s\n", apiErr.Body)
		return false
	case err != nil:
		r.log.Warn("Gist update did not complete", "error", err)
		fmt.Fprintf(r.out, "❌ An error occurred: %v\n", err)
		return false
	}

	if r.dryRun {
		return true
	}

	r.log.Info("Stats cleared", "file", r.fileName)
	fmt.Fprintln(r.out, "✅ Stats cleared!")
	fmt.Fprintf(r.out, "   Gist ID: %s\n", r.gistID)
	fmt.Fprintf(r.out, "   Content: %s\n", content)
	return true
}

// request builds the update setting the stats file to an empty array.
func (r Resetter) request() (gist.UpdateRequest, error) {
	content, err := gist.EncodeContent([]any{})
	if err != nil {
		return gist.UpdateRequest{}, err
	}
	return gist.NewUpdateRequest(r.description, r.fileName, content)
}

// preview prints the request a real run would send.
func (r Resetter) preview() error {
	endpoint, err := r.client.Endpoint(r.gistID)
	if err != nil {
		return err
	}
	req, err := r.request()
	if err != nil {
		return err
	}
	d, err := json.MarshalIndent(req, "   ", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal request preview: %v", err)
	}

	fmt.Fprintln(r.out, "🔍 Dry run, not contacting GitHub")
	fmt.Fprintf(r.out, "   PATCH %s\n", endpoint)
	fmt.Fprintf(r.out, "   %s\n", d)
	return nil
}
