package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	"storefront/internal/pricing"
	repo "storefront/internal/repository"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 同じミリ秒に注文が重なったときの採番上限
const maxOrderIDAttempts = 100

// 注文確定を外部へ伝える約束（失敗しても注文は取り消さない）
type OrderSink interface {
	OrderPlaced(ctx context.Context, order model.Order) error
}

// WhatsAppリンクを作る約束
type LinkBuilder interface {
	OrderLink(o model.Order) string
	ContactLink() string
}

type StoreSettings struct {
	Name        string
	Phone       string
	Address     string
	PromoCoupon string
}

type StorefrontUsecase struct {
	products repo.ProductRepository
	orders   repo.OrderRepository
	pricing  *pricing.Engine
	links    LinkBuilder
	sink     OrderSink
	store    StoreSettings
	logger   *zap.Logger
	now      func() time.Time
}

// DI
func NewStorefrontUsecase(
	products repo.ProductRepository,
	orders repo.OrderRepository,
	engine *pricing.Engine,
	links LinkBuilder,
	sink OrderSink,
	store StoreSettings,
	logger *zap.Logger,
) *StorefrontUsecase {
	return &StorefrontUsecase{
		products: products,
		orders:   orders,
		pricing:  engine,
		links:    links,
		sink:     sink,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// ---- catalog ----

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	Q        string
	Sort     string
}

type ProductView struct {
	model.Product
	DiscountPercent int64 `json:"discount_percent"`
}

type ProductListOutput struct {
	Items    []ProductView  `json:"items"`
	Total    int            `json:"total"`
	Category model.Category `json:"category"`
	Sort     string         `json:"sort"`
	Q        string         `json:"q"`
	Hints    []string       `json:"hints"`
}

// ヒント問い合わせに送る検索語の上限（絞り込み自体は全文で行う）
const maxHintQueryRunes = 100

func hintQuery(q string) string {
	r := []rune(q)
	if len(r) <= maxHintQueryRunes {
		return q
	}
	return string(r[:maxHintQueryRunes])
}

func (u *StorefrontUsecase) ListProducts(ctx context.Context, sess *session.Session, in ListProductsInput) (ProductListOutput, error) {
	category, ok := catalog.ParseCategory(in.Category)
	if !ok {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	sort, ok := catalog.ParseSort(in.Sort)
	if !ok {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	products, err := u.products.List(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//検索語の変化を伝え、今の検索語に対するヒントだけを使う
	hints := catalog.HintSet{}
	if tr := sess.Tracker(); tr != nil {
		summaries := make([]model.ProductSummary, 0, len(products))
		for _, p := range products {
			summaries = append(summaries, p.Summary())
		}
		tr.Observe(hintQuery(in.Q), summaries)
		hints = tr.Hints()
	}

	filtered := catalog.Apply(products, catalog.Query{
		Category: category,
		Text:     in.Q,
		Hints:    hints,
		Sort:     sort,
	})

	items := make([]ProductView, 0, len(filtered))
	for _, p := range filtered {
		items = append(items, toProductView(p))
	}

	return ProductListOutput{
		Items:    items,
		Total:    len(items),
		Category: category,
		Sort:     string(sort),
		Q:        in.Q,
		Hints:    hints.IDs(),
	}, nil
}

func (u *StorefrontUsecase) GetProduct(ctx context.Context, id string) (ProductView, error) {
	if strings.TrimSpace(id) == "" {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductView(p), nil
}

// Allを先頭に付けたカテゴリ一覧
func (u *StorefrontUsecase) Categories() []model.Category {
	return append([]model.Category{model.CategoryAll}, model.Categories()...)
}

func toProductView(p model.Product) ProductView {
	return ProductView{Product: p, DiscountPercent: p.DiscountPercent()}
}

// ---- cart ----

type CartLine struct {
	model.CartItem
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Items     []CartLine      `json:"items"`
	ItemCount int             `json:"item_count"`
	Coupon    *model.Coupon   `json:"coupon"`
	Summary   pricing.Summary `json:"summary"`
}

func (u *StorefrontUsecase) GetCart(ctx context.Context, sess *session.Session) (CartView, error) {
	return u.cartView(sess), nil
}

func (u *StorefrontUsecase) AddToCart(ctx context.Context, sess *session.Session, productID string) (CartView, error) {
	if strings.TrimSpace(productID) == "" {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	sess.AddProduct(p)
	return u.cartView(sess), nil
}

// UpdateQuantity は数量を差分で変える。0以下になった明細は消える。
func (u *StorefrontUsecase) UpdateQuantity(ctx context.Context, sess *session.Session, productID string, delta int) (CartView, error) {
	if delta == 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid delta")
	}
	if !sess.UpdateQuantity(productID, delta) {
		return CartView{}, NewHTTPError(http.StatusNotFound, "item not in cart")
	}
	return u.cartView(sess), nil
}

func (u *StorefrontUsecase) RemoveFromCart(ctx context.Context, sess *session.Session, productID string) (CartView, error) {
	if !sess.RemoveItem(productID) {
		return CartView{}, NewHTTPError(http.StatusNotFound, "item not in cart")
	}
	return u.cartView(sess), nil
}

// 無効なコードではカートもクーポンも変わらない
func (u *StorefrontUsecase) ApplyCoupon(ctx context.Context, sess *session.Session, code string) (CartView, error) {
	if !sess.ApplyCoupon(u.pricing.Coupons, code) {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid coupon code")
	}
	return u.cartView(sess), nil
}

func (u *StorefrontUsecase) cartView(sess *session.Session) CartView {
	items, coupon := sess.Cart()

	lines := make([]CartLine, 0, len(items))
	count := 0
	for _, it := range items {
		lines = append(lines, CartLine{CartItem: it, LineTotal: it.LineTotal()})
		count += it.Quantity
	}

	return CartView{
		Items:     lines,
		ItemCount: count,
		Coupon:    coupon,
		Summary:   u.pricing.Compute(items, coupon),
	}
}

// ---- orders ----

type PlaceOrderInput struct {
	CustomerName  string
	Address       string
	TimeSlot      string
	PaymentMethod string
}

type PlaceOrderOutput struct {
	Order       model.Order `json:"order"`
	WhatsAppURL string      `json:"whatsapp_url"`
}

func (u *StorefrontUsecase) PlaceOrder(ctx context.Context, sess *session.Session, in PlaceOrderInput) (PlaceOrderOutput, error) {
	mobile := sess.Phone()
	if mobile == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}

	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "address required")
	}

	payment := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentMethod)))
	if payment == "" {
		payment = model.PaymentCOD
	}
	if !payment.Valid() {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	slot := strings.TrimSpace(in.TimeSlot)
	if slot == "" {
		slot = model.DefaultTimeSlot
	}

	//カートを取り出して空にする（同時送信で二重注文にならない）
	items, coupon := sess.TakeCart()
	if len(items) == 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	sum := u.pricing.Compute(items, coupon)
	now := u.now()
	order := model.Order{
		CustomerName:   name,
		Mobile:         mobile,
		Address:        address,
		TimeSlot:       slot,
		PaymentMethod:  payment,
		Items:          items,
		Subtotal:       sum.Subtotal,
		Discount:       sum.Discount,
		DeliveryCharge: sum.DeliveryCharge,
		TotalAmount:    sum.Total,
		Status:         model.OrderStatusPending,
		CreatedAt:      now,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	if err := u.createOrder(ctx, &order, now); err != nil {
		sess.RestoreCart(items, coupon)
		return PlaceOrderOutput{}, err
	}

	if err := u.sink.OrderPlaced(ctx, order); err != nil {
		u.logger.Warn("order sink failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	return PlaceOrderOutput{
		Order:       order,
		WhatsAppURL: u.links.OrderLink(order),
	}, nil
}

// ORD-<unix millis>。衝突したら -2, -3 ... を付ける
func (u *StorefrontUsecase) createOrder(ctx context.Context, order *model.Order, now time.Time) error {
	base := fmt.Sprintf("ORD-%d", now.UnixMilli())
	for i := 1; i <= maxOrderIDAttempts; i++ {
		order.ID = base
		if i > 1 {
			order.ID = fmt.Sprintf("%s-%d", base, i)
		}
		err := u.orders.Create(ctx, *order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repo.ErrConflict) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "could not allocate order id")
}

// ログイン中の電話番号の注文だけを新しい順で返す
func (u *StorefrontUsecase) ListMyOrders(ctx context.Context, sess *session.Session) ([]model.Order, error) {
	mobile := sess.Phone()
	if mobile == "" {
		return []model.Order{}, NewHTTPError(http.StatusUnauthorized, "login required")
	}
	orders, err := u.orders.List(ctx, repo.OrderListFilter{Mobile: mobile})
	if err != nil {
		return []model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}

// ---- store ----

type StoreInfoOutput struct {
	Name                  string          `json:"name"`
	Phone                 string          `json:"phone"`
	Address               string          `json:"address"`
	WhatsAppURL           string          `json:"whatsapp_url"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	PromoCoupon           string          `json:"promo_coupon,omitempty"`
}

func (u *StorefrontUsecase) StoreInfo() StoreInfoOutput {
	return StoreInfoOutput{
		Name:                  u.store.Name,
		Phone:                 u.store.Phone,
		Address:               u.store.Address,
		WhatsAppURL:           u.links.ContactLink(),
		DeliveryFee:           u.pricing.DeliveryFee,
		FreeDeliveryThreshold: u.pricing.FreeDeliveryThreshold,
		PromoCoupon:           u.store.PromoCoupon,
	}
}
