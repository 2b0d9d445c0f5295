package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"chatsphere/server/handler"
	"chatsphere/server/room"
)

var rootCmd = &cobra.Command{
	Use:   "chatsphere-relay",
	Short: "ChatSphere relay: fans chat events out to room members",
	RunE:  runRelay,
}

var flagAddr string

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", ":8080", "listen address")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute relay command")
	}
}

func runRelay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := room.NewManager()

	r := mux.NewRouter()
	r.HandleFunc("/health", handler.HandleHealth).Methods("GET")
	r.HandleFunc("/ws", handler.HandleWebSocket(manager))

	srv := &http.Server{
		Handler:           r,
		Addr:              flagAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", flagAddr).Msg("relay starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down relay")

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}

	log.Info().Msg("relay exiting")
	return nil
}
