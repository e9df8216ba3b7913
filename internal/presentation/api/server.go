package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	ServerReadTimeout       = 60 * time.Second
	ServerWriteTimeout      = 10 * time.Minute
	ServerIdleTimeout       = 60 * time.Second
	GracefulShutdownTimeout = 10 * time.Second
)

// Serve запускает HTTP сервер и останавливает его при отмене ctx
func Serve(ctx context.Context, config Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      handler,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("сервер остановлен принудительно: %w", err)
	}
	return <-errCh
}
