package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// DescribeRequest は説明文生成の入力です。
type DescribeRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type DescribeResponse struct {
	Description string `json:"description"`
}

// /admin/products をまとめる
type AdminProductHandler struct {
	uc *usecase.AdminUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.AdminUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminグループ（SessionAuth + AdminRoleGuard 済み）に登録
func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.POST("/products/describe", h.describe)
	admin.PUT("/products/:id", h.saveProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
}

func (h *AdminProductHandler) listProducts(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), actorFromSession(s), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

// 存在しないIDなら、そのIDで作成する
func (h *AdminProductHandler) saveProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.SaveProduct(c.Request().Context(), actorFromSession(s), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), actorFromSession(s), c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) describe(c echo.Context) error {
	var req DescribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	desc, err := h.uc.GenerateDescription(c.Request().Context(), req.Name, req.Category)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DescribeResponse{Description: desc})
}
