package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

func invalidQueryValue(field, value string) error {
	return &domain.InvalidValueError{Field: field, Value: value}
}

func (s *Server) listProducts(c *gin.Context) {
	query, err := parsePageQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := s.catalog.List(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductPageResponse(page))
}

func (s *Server) listAllProducts(c *gin.Context) {
	products, err := s.catalog.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (s *Server) searchProducts(c *gin.Context) {
	query, err := parsePageQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := s.catalog.Search(c.Request.Context(), c.Query("name"), query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductPageResponse(page))
}

func (s *Server) listInStockProducts(c *gin.Context) {
	products, err := s.catalog.ListInStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) createProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &domain.InvalidValueError{Field: "body", Value: "malformed json"})
		return
	}

	product, err := s.catalog.Create(c.Request.Context(), catalog.ProductInput{
		Name:       req.Name,
		Category:   req.Category,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
		Image:      req.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (s *Server) updateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &domain.InvalidValueError{Field: "body", Value: "malformed json"})
		return
	}

	product, err := s.catalog.Update(c.Request.Context(), c.Param("id"), catalog.ProductInput{
		Name:       req.Name,
		Category:   req.Category,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
		Image:      req.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
