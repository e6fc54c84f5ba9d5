package session

import (
	"math"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	"storefront/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *pricing.Registry {
	t.Helper()
	reg, err := pricing.NewRegistry(map[string]int{"RAKESH15": 15, "WELCOME10": 10})
	require.NoError(t, err)
	return reg
}

func seed(t *testing.T, id string) model.Product {
	t.Helper()
	for _, p := range catalog.SeedProducts() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("seed product %s not found", id)
	return model.Product{}
}

func newSession() *Session {
	return New("s1", nil, time.Now())
}

func TestSession_AddProduct(t *testing.T) {
	s := newSession()
	s.AddProduct(seed(t, "1"))
	s.AddProduct(seed(t, "2"))
	s.AddProduct(seed(t, "1"))

	items, _ := s.Cart()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "2", items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, s.ItemCount())
}

func TestSession_UpdateQuantity_ClampsAndRemoves(t *testing.T) {
	s := newSession()
	s.AddProduct(seed(t, "1"))
	s.AddProduct(seed(t, "2"))

	assert.True(t, s.UpdateQuantity("1", 4))
	items, _ := s.Cart()
	assert.Equal(t, 5, items[0].Quantity)

	// 0未満にはならず、0になった行は消える
	assert.True(t, s.UpdateQuantity("1", -99))
	items, _ = s.Cart()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)

	assert.False(t, s.UpdateQuantity("1", 1))
}

func TestSession_QuantitiesStayPositive(t *testing.T) {
	s := newSession()
	s.AddProduct(seed(t, "3"))
	s.AddProduct(seed(t, "4"))

	for _, d := range []int{-1, 3, -2, 0, -5, 2} {
		s.UpdateQuantity("3", d)
		s.UpdateQuantity("4", -d)
		items, _ := s.Cart()
		for _, it := range items {
			assert.GreaterOrEqual(t, it.Quantity, 1)
		}
	}
}

// 巨大な正のdeltaでも行は消えず、上限で止まる
func TestSession_UpdateQuantity_SaturatesOnOverflow(t *testing.T) {
	s := newSession()
	s.AddProduct(seed(t, "1"))

	require.True(t, s.UpdateQuantity("1", math.MaxInt))
	items, _ := s.Cart()
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt, items[0].Quantity)

	require.True(t, s.UpdateQuantity("1", 1))
	items, _ = s.Cart()
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt, items[0].Quantity)

	//負のdeltaなら通常どおり消える
	require.True(t, s.UpdateQuantity("1", math.MinInt))
	items, _ = s.Cart()
	assert.Empty(t, items)
}

func TestSession_RemoveItem(t *testing.T) {
	s := newSession()
	s.AddProduct(seed(t, "1"))
	s.AddProduct(seed(t, "1"))

	assert.True(t, s.RemoveItem("1"))
	items, _ := s.Cart()
	assert.Empty(t, items)
	assert.False(t, s.RemoveItem("1"))
}

func TestSession_ApplyCoupon_StateMachine(t *testing.T) {
	reg := newRegistry(t)
	s := newSession()

	_, c := s.Cart()
	assert.Nil(t, c)

	assert.False(t, s.ApplyCoupon(reg, "XYZ123"))
	_, c = s.Cart()
	assert.Nil(t, c)

	assert.True(t, s.ApplyCoupon(reg, "rakesh15"))
	_, c = s.Cart()
	require.NotNil(t, c)
	assert.Equal(t, "RAKESH15", c.Code)

	// 無効コードは適用済みの状態を変えない
	assert.False(t, s.ApplyCoupon(reg, "XYZ123"))
	_, c = s.Cart()
	assert.Equal(t, "RAKESH15", c.Code)

	assert.True(t, s.ApplyCoupon(reg, "RAKESH15"))
	_, again := s.Cart()
	assert.Equal(t, c, again)

	assert.True(t, s.ApplyCoupon(reg, "WELCOME10"))
	_, c = s.Cart()
	assert.Equal(t, 10, c.Percent)
}

func TestSession_ClearCartResetsCoupon(t *testing.T) {
	reg := newRegistry(t)
	s := newSession()
	s.AddProduct(seed(t, "1"))
	s.ApplyCoupon(reg, "WELCOME10")

	s.ClearCart()
	items, c := s.Cart()
	assert.Empty(t, items)
	assert.Nil(t, c)
}

func TestSession_TakeAndRestoreCart(t *testing.T) {
	reg := newRegistry(t)
	s := newSession()
	s.AddProduct(seed(t, "2"))
	s.ApplyCoupon(reg, "WELCOME10")

	items, c := s.TakeCart()
	require.Len(t, items, 1)
	require.NotNil(t, c)
	assert.Equal(t, 0, s.ItemCount())

	s.RestoreCart(items, c)
	items, c = s.Cart()
	assert.Len(t, items, 1)
	assert.Equal(t, "WELCOME10", c.Code)
}

func TestSession_CartReturnsCopies(t *testing.T) {
	s := newSession()
	s.AddProduct(seed(t, "1"))

	items, _ := s.Cart()
	items[0].Quantity = 42

	again, _ := s.Cart()
	assert.Equal(t, 1, again[0].Quantity)
}

func TestSession_OTPFlow(t *testing.T) {
	s := newSession()

	_, ok := s.ConfirmOTP()
	assert.False(t, ok)

	s.RequestOTP("9876543210")
	phone, ok := s.ConfirmOTP()
	assert.True(t, ok)
	assert.Equal(t, "9876543210", phone)
	assert.Equal(t, "9876543210", s.Phone())

	s.Promote()
	assert.Equal(t, RoleAdmin, s.Role())

	s.Logout()
	assert.Equal(t, "", s.Phone())
	assert.Equal(t, RoleUser, s.Role())
}
