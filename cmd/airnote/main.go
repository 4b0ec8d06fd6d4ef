package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/yesilw0rks/airnote"
	"github.com/yesilw0rks/airnote/pkg/adapters/postgrest"
	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", msg, describe(err))
	os.Exit(1)
}

// describe turns remote failures into a hint and leaves other errors alone.
func describe(err error) string {
	var perr *postgrest.Error
	if errors.As(err, &perr) || errors.Is(err, core.ErrRemoteUnavailable) || errors.Is(err, core.ErrRemoteWriteFailed) {
		slog.Debug("remote failure", "error", err)
		return postgrest.Friendly(err)
	}
	return err.Error()
}

// openClient builds a started client from flags, AIRNOTE_* variables and airnote.yaml.
func openClient(ctx context.Context, extra ...airnote.Option) (*airnote.Client, error) {
	dir := viper.GetString("cache-dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = airnote.DefaultCacheDir(wd)
	}

	opts := []airnote.Option{
		airnote.WithLogger(slog.Default()),
		airnote.WithCacheExt(viper.GetString("cache-ext")),
		airnote.WithURL(viper.GetString("url")),
		airnote.WithAPIKey(viper.GetString("key")),
		airnote.WithAccessToken(viper.GetString("token")),
		airnote.WithTable(viper.GetString("table")),
		airnote.WithTimeout(viper.GetDuration("timeout")),
		airnote.WithPollInterval(viper.GetDuration("poll")),
		airnote.WithWelcomeSeed(!viper.GetBool("no-welcome")),
		airnote.WithSpaces(viper.GetStringSlice("spaces")...),
		// Use the configured cache even under `go run`.
		airnote.WithDevSafety(false),
	}
	if remote := viper.GetString("remote"); remote != "" {
		opts = append(opts, airnote.WithRemote(remote))
	}
	opts = append(opts, extra...)

	client, err := airnote.New(dir, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.Start(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// requireIdentity fails with a hint when nobody is signed in.
func requireIdentity(client *airnote.Client) string {
	id, ok := client.Session().Identity()
	if !ok {
		fmt.Fprintln(os.Stderr, "Not signed in. Run 'airnote login --guest' or 'airnote login --user <id>'.")
		os.Exit(1)
	}
	return id
}

// reportRefresh prints a one-line notice when the list came from the cache.
func reportRefresh(err error) {
	if err == nil {
		return
	}
	if reconcile.IsOffline(err) {
		fmt.Fprintf(os.Stderr, "offline: showing cached notes (%s)\n", describe(err))
		return
	}
	fatal("Failed to load notes", err)
}
