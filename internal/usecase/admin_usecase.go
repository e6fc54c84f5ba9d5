package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 在庫がこれ未満なら「少ない」
const lowStockThreshold = 10

const fallbackDescription = "Fresh and high-quality product for your daily needs."

// 商品説明文を作る約束
type DescriptionWriter interface {
	Describe(ctx context.Context, name string, category model.Category) (string, error)
}

type AdminUsecase struct {
	products  repo.ProductRepository
	orders    repo.OrderRepository
	auditRepo repo.AuditLogRepository
	describer DescriptionWriter
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// DI
func NewAdminUsecase(
	products repo.ProductRepository,
	orders repo.OrderRepository,
	auditRepo repo.AuditLogRepository,
	describer DescriptionWriter,
	logger *zap.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		products:  products,
		orders:    orders,
		auditRepo: auditRepo,
		describer: describer,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// 作成と更新で共通の入力
type ProductInput struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	MRP         decimal.Decimal `json:"mrp"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Stock       int64           `json:"stock"`
	Weight      string          `json:"weight"`
	Description string          `json:"description"`
}

// Price <= MRP は強制しない
func (in ProductInput) toProduct(id string) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	category := model.Category(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if in.MRP.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "mrp must be >= 0")
	}
	if in.Price.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	return model.Product{
		ID:          id,
		Name:        name,
		Brand:       strings.TrimSpace(in.Brand),
		Category:    category,
		MRP:         in.MRP,
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
		Stock:       in.Stock,
		Weight:      strings.TrimSpace(in.Weight),
		Description: strings.TrimSpace(in.Description),
	}, nil
}

// ---- products ----

func (u *AdminUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.List(ctx)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *AdminUsecase) CreateProduct(ctx context.Context, actor string, in ProductInput) (model.Product, error) {
	return u.createWithID(ctx, actor, u.newID(), in)
}

func (u *AdminUsecase) UpdateProduct(ctx context.Context, actor string, id string, in ProductInput) (model.Product, error) {
	if strings.TrimSpace(id) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := in.toProduct(id)
	if err != nil {
		return model.Product{}, err
	}

	//変更前（before）
	before, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit(ctx, actor, model.AuditActionUpdateProduct, model.AuditResourceProduct, id, before, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// SaveProduct は既存IDなら更新、無ければそのIDで作成する（管理画面の保存ボタン）。
func (u *AdminUsecase) SaveProduct(ctx context.Context, actor string, id string, in ProductInput) (model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return u.CreateProduct(ctx, actor, in)
	}
	_, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return u.createWithID(ctx, actor, id, in)
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.UpdateProduct(ctx, actor, id, in)
}

func (u *AdminUsecase) createWithID(ctx context.Context, actor string, id string, in ProductInput) (model.Product, error) {
	p, err := in.toProduct(id)
	if err != nil {
		return model.Product{}, err
	}

	created, err := u.products.Create(ctx, p)
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product id already exists")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit(ctx, actor, model.AuditActionCreateProduct, model.AuditResourceProduct, id, nil, created); err != nil {
		return model.Product{}, err
	}
	return created, nil
}

func (u *AdminUsecase) DeleteProduct(ctx context.Context, actor string, id string) error {
	before, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.audit(ctx, actor, model.AuditActionDeleteProduct, model.AuditResourceProduct, id, before, nil)
}

// GenerateDescription は失敗しても定型文を返す。
func (u *AdminUsecase) GenerateDescription(ctx context.Context, name string, category string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewHTTPError(http.StatusBadRequest, "name required")
	}
	c := model.Category(strings.TrimSpace(category))
	if !c.Valid() {
		return "", NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	desc, err := u.describer.Describe(ctx, name, c)
	if err != nil {
		u.logger.Warn("description generation failed", zap.String("name", name), zap.Error(err))
		return fallbackDescription, nil
	}
	if strings.TrimSpace(desc) == "" {
		return fallbackDescription, nil
	}
	return desc, nil
}

// ---- orders ----

func (u *AdminUsecase) ListOrders(ctx context.Context, status string) ([]model.Order, error) {
	f := repo.OrderListFilter{}
	if s := strings.TrimSpace(status); s != "" {
		st := model.OrderStatus(s)
		if !st.Valid() {
			return []model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}

	orders, err := u.orders.List(ctx, f)
	if err != nil {
		return []model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}

func (u *AdminUsecase) UpdateOrderStatus(ctx context.Context, actor string, orderID string, status string) (model.Order, error) {
	newStatus := model.OrderStatus(strings.TrimSpace(status))
	if !newStatus.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// すでに同じなら何もしない（200）
	if o.Status == newStatus {
		return o, nil
	}
	//どのステータスからでも変更できる（誤操作の取り消し用）

	if err := u.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := map[string]model.OrderStatus{"status": o.Status}
	after := map[string]model.OrderStatus{"status": newStatus}
	if err := u.audit(ctx, actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID, before, after); err != nil {
		return model.Order{}, err
	}

	o.Status = newStatus
	return o, nil
}

type StatsOutput struct {
	TotalSales     decimal.Decimal           `json:"total_sales"`
	CancelledSales decimal.Decimal           `json:"cancelled_sales"`
	TotalOrders    int                       `json:"total_orders"`
	ProductCount   int                       `json:"product_count"`
	LowStockCount  int                       `json:"low_stock_count"`
	OrdersByStatus map[model.OrderStatus]int `json:"orders_by_status"`
}

// 売上は全注文の合計。キャンセル分は内訳として別に出す
func (u *AdminUsecase) Stats(ctx context.Context) (StatsOutput, error) {
	orders, err := u.orders.List(ctx, repo.OrderListFilter{})
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	products, err := u.products.List(ctx)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := StatsOutput{
		TotalSales:     decimal.Zero,
		CancelledSales: decimal.Zero,
		TotalOrders:    len(orders),
		ProductCount:   len(products),
		OrdersByStatus: make(map[model.OrderStatus]int, len(model.OrderStatuses())),
	}
	for _, s := range model.OrderStatuses() {
		out.OrdersByStatus[s] = 0
	}
	for _, o := range orders {
		out.OrdersByStatus[o.Status]++
		out.TotalSales = out.TotalSales.Add(o.TotalAmount)
		if o.Status == model.OrderStatusCancelled {
			out.CancelledSales = out.CancelledSales.Add(o.TotalAmount)
		}
	}
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			out.LowStockCount++
		}
	}
	return out, nil
}

// ---- audit ----

type AuditLogListInput struct {
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}

func (u *AdminUsecase) ListAuditLogs(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Limit < 0 || in.Limit > 200 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		switch a {
		case model.AuditActionCreateProduct, model.AuditActionUpdateProduct,
			model.AuditActionDeleteProduct, model.AuditActionUpdateOrderStatus:
		default:
			return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		if rt != model.AuditResourceProduct && rt != model.AuditResourceOrder {
			return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
		f.ResourceType = &rt
	}
	if in.ResourceID != "" {
		id := in.ResourceID
		f.ResourceID = &id
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// 監査ログ
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func (u *AdminUsecase) audit(ctx context.Context, actor string, action model.AuditAction, rt model.AuditResourceType, id string, before, after any) error {
	log := model.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: rt,
		ResourceID:   id,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    u.now(),
	}
	if err := u.auditRepo.Create(ctx, log); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
