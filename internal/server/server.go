// Package server exposes the order store over a small JSON API. It is
// the process boundary a thin presentation client talks to; no rendering
// happens here.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/uptrace/bun"

	"github.com/joseph-ayodele/order-wizard/internal/export"
	"github.com/joseph-ayodele/order-wizard/internal/ocr"
	"github.com/joseph-ayodele/order-wizard/internal/query"
	"github.com/joseph-ayodele/order-wizard/internal/repository"
)

type Server struct {
	echo      *echo.Echo
	db        *bun.DB
	orders    repository.OrderRepository
	ocr       *ocr.Service
	export    *export.Service
	tolerance float64
	logger    *slog.Logger
}

// New wires routes and middleware. tolerance is the amount-proximity
// band for list search; pass query.DefaultAmountTolerance unless
// configured otherwise.
func New(db *bun.DB, orders repository.OrderRepository, ocrSvc *ocr.Service, exportSvc *export.Service, tolerance float64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if tolerance <= 0 {
		tolerance = query.DefaultAmountTolerance
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		db:        db,
		orders:    orders,
		ocr:       ocrSvc,
		export:    exportSvc,
		tolerance: tolerance,
		logger:    logger,
	}

	e.GET("/healthz", s.health)

	api := e.Group("/api")
	api.POST("/orders", s.createOrder)
	api.GET("/orders", s.listOrders)
	api.GET("/orders/export", s.exportOrders)
	api.GET("/orders/:id", s.getOrder)
	api.PUT("/orders/:id", s.updateOrder)
	api.DELETE("/orders/:id", s.deleteOrder)
	api.POST("/orders/parse", s.parseOrder)
	api.POST("/ocr", s.extractText)

	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Handler exposes the routed handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
