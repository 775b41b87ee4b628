package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/flightreserve/api"
	"github.com/Domenick1991/flightreserve/config"
	"github.com/Domenick1991/flightreserve/internal/service/booking"
	"github.com/Domenick1991/flightreserve/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	apiGroup := router.Group("/api")
	api.NewFlightHandler(flightSvc).Register(apiGroup.Group("/flights"))
	api.NewReservationHandler(bookingSvc).Register(apiGroup.Group("/reservations"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "flightreserve"})
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			slog.Error("request failed", fields...)
		} else {
			slog.Info("request completed", fields...)
		}
	}
}
