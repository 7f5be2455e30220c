package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/lysokunvoath/grex/internal/client"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:8080"

var (
	gw  *gateway.Client
	app *client.App
)

var errNotSignedIn = errors.New("not signed in; run `grex login` first")

var rootCmd = &cobra.Command{
	Use:   "grex",
	Short: "GREX - organise groups and their meetups",
	Long: `GREX keeps track of the groups you belong to and the activities they
schedule. Sign in once and the session is kept between runs.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if app != nil {
			app.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "API base URL (default $GREX_API_URL or "+defaultAPIURL+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func apiURL(cmd *cobra.Command) string {
	if v, err := cmd.Flags().GetString("api"); err == nil && v != "" {
		return v
	}
	if v := os.Getenv("GREX_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		level = slog.LevelDebug
	}
	logging.SetupWithLevel(level)

	path, err := gateway.DefaultSessionPath()
	if err != nil {
		return errors.Wrap(err, "locate session file")
	}
	gw = gateway.New(apiURL(cmd), gateway.WithSessionStore(gateway.FileStore{Path: path}))
	app = client.NewApp(gw, client.WithClipboard(client.ClipboardFunc(clipboard.WriteAll)))

	if err := app.Start(cmd.Context()); err != nil {
		return errors.Wrap(err, "load session")
	}
	slog.Debug("client ready", "api", gw.BaseURL(), "signed_in", app.Authenticated())
	return nil
}

// requireUser fails commands that need a session.
func requireUser(*cobra.Command, []string) error {
	if !app.Authenticated() {
		return errNotSignedIn
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var n noticeError
		if !errors.As(err, &n) {
			err = errors.New(gateway.Message(err))
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		stop()
		os.Exit(1)
	}
}
