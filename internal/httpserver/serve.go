package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/taskbox/internal/logutil"
)

// Serve runs an HTTP server bound to the given address until either the
// server fails or ctx is canceled, in which case a graceful shutdown is
// attempted before returning.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: time.Minute,
		IdleTimeout:       time.Minute * 5,
	}
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", bind).Logger()
	failure := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			// shutdown was requested, nothing to report
			err = nil
		}
		failure <- err
	}()
	select {
	case err := <-failure:
		return err
	case <-ctx.Done():
		log.Info().Msg("Initiating shutdown process")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		server.Shutdown(shutdownCtx)
		log.Info().Msg("Shutdown completed")
		return <-failure
	}
}
