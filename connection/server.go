package connection

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"teamhub/services"
)

const shutdownTimeout = 5 * time.Second

// StartServer serves the API until ctx is cancelled, then drains in-flight
// requests.
func StartServer(ctx context.Context, env *services.Env) error {
	router, err := NewRouter(env)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + env.Config.Port,
		Handler:           otelhttp.NewHandler(router, "teamhub"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		env.Logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	env.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
