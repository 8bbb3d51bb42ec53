package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func (s *Server) checkoutCart(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &domain.InvalidValueError{Field: "body", Value: "malformed json"})
		return
	}

	cart := make([]domain.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		cart = append(cart, domain.CartLine{ProductID: item.ProductID, Qty: item.Qty})
	}

	order, err := s.checkout.Checkout(c.Request.Context(), req.UserID, cart)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.checkout.ListOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.checkout.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) listOrdersByStatus(c *gin.Context) {
	raw := c.Param("status")
	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		writeError(c, &domain.InvalidValueError{Field: "status", Value: raw})
		return
	}

	orders, err := s.checkout.ListOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (s *Server) listOrdersCreatedBetween(c *gin.Context) {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		writeError(c, err)
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		writeError(c, err)
		return
	}

	orders, err := s.checkout.ListOrdersCreatedBetween(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func parseTimeQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, &domain.InvalidValueError{Field: name, Value: ""}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &domain.InvalidValueError{Field: name, Value: raw}
	}
	return parsed, nil
}

func (s *Server) listOrdersByUser(c *gin.Context) {
	orders, err := s.checkout.ListOrdersByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.checkout.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
