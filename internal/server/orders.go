package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/order-wizard/internal/common"
	"github.com/joseph-ayodele/order-wizard/internal/entity"
	"github.com/joseph-ayodele/order-wizard/internal/query"
)

// createOrderRequest accepts either raw order text (parsed server-side)
// or a structured order. When text is set it wins; image_uri and
// comment_with_picture still apply to the parsed result, mirroring the
// add-order form.
type createOrderRequest struct {
	Text string `json:"text"`
	entity.Order
}

type listOrdersResponse struct {
	Orders      []*entity.Order `json:"orders"`
	TotalAmount float64         `json:"total_amount"`
}

func (s *Server) createOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order := &req.Order
	if strings.TrimSpace(req.Text) != "" {
		parsed, err := entity.ParseOrderText(req.Text)
		if err != nil {
			return s.orderError(c, err)
		}
		parsed.ImageURI = req.Order.ImageURI
		parsed.CommentWithPicture = req.Order.CommentWithPicture
		order = parsed
	}

	if _, err := s.orders.Insert(c.Request().Context(), order); err != nil {
		return s.orderError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (s *Server) listOrders(c echo.Context) error {
	orders, err := s.orders.ListOrders(c.Request().Context())
	if err != nil {
		return s.orderError(c, err)
	}

	if q := c.QueryParam("q"); q != "" {
		orders = query.Search(orders, q, s.tolerance)
	}

	return c.JSON(http.StatusOK, listOrdersResponse{
		Orders:      orders,
		TotalAmount: query.TotalAmount(orders),
	})
}

func (s *Server) getOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := s.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return s.orderError(c, err)
	}
	if order == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) updateOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}

	var order entity.Order
	if err := c.Bind(&order); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	matched, err := s.orders.Update(c.Request().Context(), id, &order)
	if err != nil {
		return s.orderError(c, err)
	}
	if !matched {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	updated, err := s.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return s.orderError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}

	matched, err := s.orders.Delete(c.Request().Context(), id)
	if err != nil {
		return s.orderError(c, err)
	}
	if !matched {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// parseOrder previews what order text would produce, without persisting.
func (s *Server) parseOrder(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := entity.ParseOrderText(req.Text)
	if err != nil {
		return s.orderError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) exportOrders(c echo.Context) error {
	data, err := s.export.ExportOrdersXLSX(c.Request().Context())
	if err != nil {
		return s.orderError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func orderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// orderError maps core errors onto HTTP statuses. Parse and validation
// failures carry their message to the client; storage failures are
// logged and masked.
func (s *Server) orderError(c echo.Context, err error) error {
	var parseErr *common.ParseError
	switch {
	case errors.As(err, &parseErr):
		return echo.NewHTTPError(http.StatusBadRequest, parseErr.Message)
	case errors.Is(err, common.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
