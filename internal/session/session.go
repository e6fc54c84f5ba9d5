// Package session holds the per-visitor application state: cart, applied
// coupon, search hint tracker and mock login. All mutation goes through
// Session methods, which serialise on the session's own mutex.
package session

import (
	"math"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/pricing"
	"storefront/internal/suggest"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	phone        string
	pendingPhone string
	role         Role
	items        []model.CartItem
	coupon       *model.Coupon
	tracker      *suggest.Tracker
	lastSeen     time.Time
}

func New(id string, tracker *suggest.Tracker, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		role:      RoleUser,
		tracker:   tracker,
		lastSeen:  now,
	}
}

// ---- login state ----

func (s *Session) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// RequestOTP remembers the phone an OTP was sent to.
func (s *Session) RequestOTP(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPhone = phone
}

// ConfirmOTP moves the pending phone to the logged-in phone.
// It returns false when no OTP was requested.
func (s *Session) ConfirmOTP() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingPhone == "" {
		return "", false
	}
	s.phone = s.pendingPhone
	s.pendingPhone = ""
	return s.phone, true
}

func (s *Session) Promote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = RoleAdmin
}

// Logout clears login and admin state. The cart survives.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phone = ""
	s.pendingPhone = ""
	s.role = RoleUser
}

// ---- cart ----

// AddProduct increments the line for p, or appends it with quantity 1.
func (s *Session) AddProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, model.CartItem{Product: p, Quantity: 1})
}

// UpdateQuantity adds delta to the line, clamping at zero; a line that reaches
// zero is removed. Returns false when the product is not in the cart.
func (s *Session) UpdateQuantity(productID string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateQuantityLocked(productID, delta)
}

func (s *Session) RemoveItem(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == productID {
			return s.updateQuantityLocked(productID, -it.Quantity)
		}
	}
	return false
}

func (s *Session) updateQuantityLocked(productID string, delta int) bool {
	idx := -1
	for i := range s.items {
		if s.items[i].ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	cur := s.items[idx].Quantity
	q := cur + delta
	//正のdeltaで桁あふれしたら上限で止める
	if delta > 0 && q < cur {
		q = math.MaxInt
	}
	if q > 0 {
		s.items[idx].Quantity = q
		return true
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	return true
}

// ApplyCoupon sets the applied coupon when code is known to reg.
// An unknown code leaves the current coupon untouched.
func (s *Session) ApplyCoupon(reg *pricing.Registry, code string) bool {
	c, ok := reg.Lookup(code)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = &c
	return true
}

// ClearCart empties the cart and resets the coupon slot.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.coupon = nil
}

// Cart returns copies of the items and the applied coupon taken together.
func (s *Session) Cart() ([]model.CartItem, *model.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	var c *model.Coupon
	if s.coupon != nil {
		cc := *s.coupon
		c = &cc
	}
	return items, c
}

// TakeCart returns the cart and clears it in one step.
func (s *Session) TakeCart() ([]model.CartItem, *model.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, c := s.items, s.coupon
	s.items = nil
	s.coupon = nil
	if items == nil {
		items = []model.CartItem{}
	}
	return items, c
}

// RestoreCart puts back a cart taken by TakeCart when the cart is still empty.
func (s *Session) RestoreCart(items []model.CartItem, c *model.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) > 0 {
		return
	}
	s.items = items
	s.coupon = c
}

func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// ---- hints / lifecycle ----

func (s *Session) Tracker() *suggest.Tracker {
	return s.tracker
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	if s.tracker != nil {
		s.tracker.Stop()
	}
}
