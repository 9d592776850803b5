package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avoronkov/aeroreserve/api"
	"github.com/avoronkov/aeroreserve/config"
	"github.com/avoronkov/aeroreserve/internal/service/catalog"
	"github.com/avoronkov/aeroreserve/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, catalogSvc catalog.CatalogUseCase, reservationSvc reservation.ReservationUseCase) error {
	router := gin.Default()

	flightHandler := api.NewFlightHandler(catalogSvc)
	flightHandler.Register(router.Group("/flights"))

	reservationHandler := api.NewReservationHandler(reservationSvc, catalogSvc)
	reservationHandler.Register(router.Group("/reservations"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
