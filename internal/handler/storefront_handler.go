package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 店舗情報と商品一覧
type StorefrontHandler struct {
	uc *usecase.StorefrontUsecase
}

// DI
func NewStorefrontHandler(uc *usecase.StorefrontUsecase) *StorefrontHandler {
	return &StorefrontHandler{uc: uc}
}

// /store と /categories はトークンなし、/products はセッション必須
// （検索ヒントがセッションに紐づくため）
func (h *StorefrontHandler) RegisterRoutes(public *echo.Group, sess *echo.Group) {
	public.GET("/store", h.store)
	public.GET("/categories", h.categories)

	sess.GET("/products", h.list)
	sess.GET("/products/:id", h.detail)
}

func (h *StorefrontHandler) store(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.StoreInfo())
}

func (h *StorefrontHandler) categories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Categories())
}

func (h *StorefrontHandler) list(c echo.Context) error {
	s, ok := sessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListProducts(c.Request().Context(), s, usecase.ListProductsInput{
		Category: c.QueryParam("category"),
		Q:        c.QueryParam("q"),
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *StorefrontHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}
