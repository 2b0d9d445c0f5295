package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"chatsphere/client/reconcile"
	"chatsphere/client/session"
	"chatsphere/client/timeline"
	"chatsphere/client/transport"
	"chatsphere/client/ui"
)

var rootCmd = &cobra.Command{
	Use:   "chatsphere",
	Short: "Terminal chat client for a ChatSphere relay",
	RunE:  runClient,
}

var (
	flagServerURL string
	flagRoom      string
	flagName      string
	flagLogFile   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagServerURL, "server-url", "ws://localhost:8080/ws", "relay websocket endpoint")
	flags.StringVar(&flagRoom, "room", "", "prefill the room name on the join form")
	flags.StringVar(&flagName, "name", "", "prefill the display name on the join form")
	flags.StringVar(&flagLogFile, "log-file", "", "optional debug log file (the TUI owns the terminal)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	// The TUI owns stdout, so logging is disabled unless routed to a file.
	log.Logger = zerolog.Nop()
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}

	conn, err := transport.Dial(context.Background(), flagServerURL)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	events, release := conn.Subscribe()
	defer release()

	sess := session.New()
	tl := timeline.New()

	return ui.Run(ui.Options{
		Session:    sess,
		Timeline:   tl,
		Reconciler: reconcile.New(sess, tl, conn),
		Events:     events,
		Release:    release,
		Room:       flagRoom,
		Name:       flagName,
	})
}
