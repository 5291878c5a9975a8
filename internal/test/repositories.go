package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

// MemoryStore bundles in-memory repositories wired to each other the way the
// database is: order side effects land in the notification, outbox, EMI and
// cart stubs.
type MemoryStore struct {
	Users         *UserRepositoryStub
	Catalog       *CatalogRepositoryStub
	Carts         *CartRepositoryStub
	Orders        *OrderRepositoryStub
	Reviews       *ReviewRepositoryStub
	Notifications *NotificationRepositoryStub
	Outbox        *OutboxRepositoryStub
	EMI           *EMIRepositoryStub
	Coupons       *CouponRepositoryStub
}

// NewMemoryStore constructs an empty wired store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		Users:         NewUserRepositoryStub(),
		Catalog:       NewCatalogRepositoryStub(),
		Notifications: &NotificationRepositoryStub{},
		Outbox:        &OutboxRepositoryStub{},
		EMI:           &EMIRepositoryStub{},
		Coupons:       &CouponRepositoryStub{Items: make(map[string]*model.Coupon)},
	}
	s.Users.Outbox = s.Outbox
	s.Carts = &CartRepositoryStub{Catalog: s.Catalog, Items: make(map[int64][]model.CartItem)}
	s.Reviews = &ReviewRepositoryStub{Catalog: s.Catalog}
	s.Orders = &OrderRepositoryStub{
		Items:         make(map[string]*model.Order),
		Carts:         s.Carts,
		Notifications: s.Notifications,
		Outbox:        s.Outbox,
		EMI:           s.EMI,
	}
	return s
}

// UserRepositoryStub stores users in-memory for tests. Register queues the
// verification email on Outbox when set, and stores nothing if that fails.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
	Outbox  *OutboxRepositoryStub
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(user)
}

func (s *UserRepositoryStub) Register(ctx context.Context, user *model.User, verification model.EmailMessage) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Outbox != nil {
		if err := s.Outbox.Enqueue(ctx, verification); err != nil {
			return nil, err
		}
	}
	return s.create(user)
}

func (s *UserRepositoryStub) create(user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *user
	stored.ID = s.Next
	stored.CreatedAt = time.Now()
	s.Next++
	s.ByEmail[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SetOTP replaces the stored verification code.
func (s *UserRepositoryStub) SetOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.OTPHash = otpHash
	user.OTPExpiresAt = &expiresAt
	user.OTPAttempts = 0
	return nil
}

func (s *UserRepositoryStub) RecordOTPFailure(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.OTPAttempts++
	if user.OTPAttempts >= model.MaxOTPAttempts {
		user.OTPHash = ""
		user.OTPExpiresAt = nil
	}
	return nil
}

// MarkVerified flags the email as verified and clears the code.
func (s *UserRepositoryStub) MarkVerified(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.EmailVerified = true
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	user.OTPAttempts = 0
	return nil
}

// Add stores a ready-made user, typically verified, and returns it.
func (s *UserRepositoryStub) Add(user model.User) *model.User {
	created, _ := s.Create(context.Background(), &user)
	return created
}

// CatalogRepositoryStub keeps products and categories in memory.
type CatalogRepositoryStub struct {
	mu         sync.Mutex
	Products   map[int64]*model.Product
	Categories []model.Category
	next       int64
}

// NewCatalogRepositoryStub constructs an empty catalog.
func NewCatalogRepositoryStub() *CatalogRepositoryStub {
	return &CatalogRepositoryStub{Products: make(map[int64]*model.Product)}
}

// Add stores a product, assigning an id when missing.
func (s *CatalogRepositoryStub) Add(p model.Product) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.next++
		p.ID = s.next
	} else if p.ID > s.next {
		s.next = p.ID
	}
	s.Products[p.ID] = &p
	out := p
	return &out
}

func (s *CatalogRepositoryStub) sorted(match func(*model.Product) bool) []model.Product {
	var out []model.Product
	for _, p := range s.Products {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *CatalogRepositoryStub) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	all := s.sorted(func(p *model.Product) bool {
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			return false
		}
		if filter.Featured && !p.Featured {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(p.Name), search)
	})
	return paginate(all, filter.Page), len(all), nil
}

func (s *CatalogRepositoryStub) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CatalogRepositoryStub) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Products {
		if p.Slug == slug {
			out := *p
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CatalogRepositoryStub) RelatedProducts(ctx context.Context, product *model.Product, limit int) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	related := s.sorted(func(p *model.Product) bool {
		return p.CategoryID == product.CategoryID && p.ID != product.ID
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func (s *CatalogRepositoryStub) RecommendedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	featured := s.sorted(func(p *model.Product) bool { return p.Featured })
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

func (s *CatalogRepositoryStub) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	s.mu.Lock()
	for _, p := range s.Products {
		if p.Slug == product.Slug {
			s.mu.Unlock()
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	s.mu.Unlock()
	return s.Add(*product), nil
}

func (s *CatalogRepositoryStub) UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Products[product.ID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored := *product
	s.Products[product.ID] = &stored
	out := stored
	return &out, nil
}

func (s *CatalogRepositoryStub) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.Categories...), nil
}

func (s *CatalogRepositoryStub) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Categories {
		if c.Slug == category.Slug {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	created := *category
	created.ID = int64(len(s.Categories) + 1)
	s.Categories = append(s.Categories, created)
	return &created, nil
}

// CartRepositoryStub keeps carts in memory, resolving product names from Catalog.
type CartRepositoryStub struct {
	mu      sync.Mutex
	Catalog *CatalogRepositoryStub
	Items   map[int64][]model.CartItem
	Err     error
}

func (s *CartRepositoryStub) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cart := &model.Cart{UserID: userID}
	for _, it := range s.Items[userID] {
		if s.Catalog != nil {
			if p, err := s.Catalog.GetProduct(ctx, it.ProductID); err == nil {
				it.ProductName = p.Name
				if len(p.Images) > 0 {
					it.ProductImage = p.Images[0]
				}
			}
		}
		cart.Items = append(cart.Items, it)
	}
	return cart, nil
}

func (s *CartRepositoryStub) AddItem(ctx context.Context, userID int64, item model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	lines := s.Items[userID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID {
			lines[i].Quantity += item.Quantity
			return nil
		}
	}
	item.AddedAt = time.Now()
	s.Items[userID] = append(lines, item)
	return nil
}

func (s *CartRepositoryStub) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items[userID] {
		if s.Items[userID][i].ProductID == productID {
			s.Items[userID][i].Quantity = quantity
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) RemoveItem(ctx context.Context, userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.Items[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			s.Items[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Items, userID)
	return nil
}

// OrderRepositoryStub keeps orders in memory with version checks and applies
// side effects to the linked stubs.
type OrderRepositoryStub struct {
	mu            sync.Mutex
	Items         map[string]*model.Order
	Effects       []repository.OrderSideEffects
	Lookups       []string
	Carts         *CartRepositoryStub
	Notifications *NotificationRepositoryStub
	Outbox        *OutboxRepositoryStub
	EMI           *EMIRepositoryStub
	// UpdateErr, when set, fails the next Update without changing state.
	UpdateErr error
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = append([]model.LineItem(nil), o.Items...)
	c.StatusHistory = append([]model.StatusUpdate(nil), o.StatusHistory...)
	if o.ConfirmationExpiresAt != nil {
		t := *o.ConfirmationExpiresAt
		c.ConfirmationExpiresAt = &t
	}
	return &c
}

// Create stores the order at version 1.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, effects repository.OrderSideEffects) error {
	s.mu.Lock()
	if _, exists := s.Items[order.ID]; exists {
		s.mu.Unlock()
		return domainErrors.ErrAlreadyExists
	}
	order.Version = 1
	s.Items[order.ID] = cloneOrder(order)
	s.Effects = append(s.Effects, effects)
	s.mu.Unlock()
	return s.apply(ctx, order.UserID, effects)
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups = append(s.Lookups, id)
	if o, ok := s.Items[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	var matched []model.Order
	for _, o := range s.Items {
		if filter.UserID != 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Phase != model.PhaseNone && o.Phase() != filter.Phase {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(o.Number), search) &&
			!strings.Contains(strings.ToLower(o.ShippingAddress.FullName), search) {
			continue
		}
		matched = append(matched, *cloneOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.Oldest {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Number > b.Number
	})
	return paginate(matched, filter.Page), len(matched), nil
}

// Update writes the order when its version matches and bumps it.
func (s *OrderRepositoryStub) Update(ctx context.Context, order *model.Order, effects repository.OrderSideEffects) error {
	s.mu.Lock()
	if s.UpdateErr != nil {
		err := s.UpdateErr
		s.UpdateErr = nil
		s.mu.Unlock()
		return err
	}
	stored, ok := s.Items[order.ID]
	if !ok || stored.Version != order.Version {
		s.mu.Unlock()
		return domainErrors.ErrConflict
	}
	order.Version++
	s.Items[order.ID] = cloneOrder(order)
	s.Effects = append(s.Effects, effects)
	s.mu.Unlock()

	if effects.EMIPlan != nil && s.EMI != nil {
		s.EMI.Add(effects.EMIPlan)
	}
	return s.apply(ctx, order.UserID, effects)
}

func (s *OrderRepositoryStub) CountByStatus(ctx context.Context, userID int64) (map[model.OrderStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[model.OrderStatus]int)
	for _, o := range s.Items {
		if o.UserID == userID {
			counts[o.Status]++
		}
	}
	return counts, nil
}

// Add stores a ready-made order directly, keeping its version.
func (s *OrderRepositoryStub) Add(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.Version == 0 {
		order.Version = 1
	}
	s.Items[order.ID] = cloneOrder(&order)
}

func (s *OrderRepositoryStub) apply(ctx context.Context, userID int64, effects repository.OrderSideEffects) error {
	if s.Notifications != nil {
		for i := range effects.Notifications {
			if err := s.Notifications.Create(ctx, &effects.Notifications[i]); err != nil {
				return err
			}
		}
	}
	if s.Outbox != nil {
		for _, msg := range effects.Emails {
			if err := s.Outbox.Enqueue(ctx, msg); err != nil {
				return err
			}
		}
	}
	if effects.ClearCart && s.Carts != nil {
		return s.Carts.Clear(ctx, userID)
	}
	return nil
}

// ReviewRepositoryStub keeps one review per user and product.
type ReviewRepositoryStub struct {
	mu      sync.Mutex
	Catalog *CatalogRepositoryStub
	Items   []model.Review
}

func (s *ReviewRepositoryStub) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range s.Items {
		if s.Items[i].UserID == review.UserID && s.Items[i].ProductID == review.ProductID {
			s.Items[i].Rating = review.Rating
			s.Items[i].Comment = review.Comment
			s.Items[i].UpdatedAt = now
			out := s.Items[i]
			return &out, nil
		}
	}
	created := *review
	created.ID = int64(len(s.Items) + 1)
	created.CreatedAt, created.UpdatedAt = now, now
	s.Items = append(s.Items, created)
	return &created, nil
}

func (s *ReviewRepositoryStub) Delete(ctx context.Context, userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items {
		if s.Items[i].UserID == userID && s.Items[i].ProductID == productID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *ReviewRepositoryStub) ListByProduct(ctx context.Context, productID int64, page model.Page) ([]model.Review, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Review
	for _, r := range s.Items {
		if r.ProductID == productID {
			matched = append(matched, r)
		}
	}
	return paginate(matched, page), len(matched), nil
}

func (s *ReviewRepositoryStub) Distribution(ctx context.Context, productID int64) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int]int)
	for _, r := range s.Items {
		if r.ProductID == productID {
			counts[r.Rating]++
		}
	}
	return counts, nil
}

// NotificationRepositoryStub keeps inbox messages in memory.
type NotificationRepositoryStub struct {
	mu    sync.Mutex
	Items []model.Notification
}

func (s *NotificationRepositoryStub) Create(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = int64(len(s.Items) + 1)
	n.CreatedAt = time.Now()
	s.Items = append(s.Items, *n)
	return nil
}

func (s *NotificationRepositoryStub) ListByUser(ctx context.Context, userID int64, unreadOnly bool, page model.Page) ([]model.Notification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Notification
	for i := len(s.Items) - 1; i >= 0; i-- {
		n := s.Items[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			matched = append(matched, n)
		}
	}
	return paginate(matched, page), len(matched), nil
}

func (s *NotificationRepositoryStub) CountUnread(ctx context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, item := range s.Items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *NotificationRepositoryStub) SetRead(ctx context.Context, userID, id int64, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items {
		if s.Items[i].ID == id && s.Items[i].UserID == userID {
			s.Items[i].IsRead = read
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *NotificationRepositoryStub) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.Items {
		if s.Items[i].UserID == userID && !s.Items[i].IsRead {
			s.Items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

// ForUser returns notifications of one user in creation order.
func (s *NotificationRepositoryStub) ForUser(userID int64) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Notification
	for _, n := range s.Items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// OutboxRepositoryStub queues emails in memory.
type OutboxRepositoryStub struct {
	mu       sync.Mutex
	Messages []model.EmailMessage
	Err      error
}

func (s *OutboxRepositoryStub) Enqueue(ctx context.Context, msg model.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	msg.ID = int64(len(s.Messages) + 1)
	msg.Status = model.EmailPending
	msg.CreatedAt = time.Now()
	s.Messages = append(s.Messages, msg)
	return nil
}

func (s *OutboxRepositoryStub) ClaimBatch(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.EmailMessage
	for _, m := range s.Messages {
		if m.Status == model.EmailPending && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *OutboxRepositoryStub) MarkSent(ctx context.Context, id int64) error {
	return s.update(id, func(m *model.EmailMessage) {
		now := time.Now()
		m.Status = model.EmailSent
		m.SentAt = &now
	})
}

func (s *OutboxRepositoryStub) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return s.update(id, func(m *model.EmailMessage) {
		m.Attempts++
		m.LastError = errMsg
		if m.Attempts >= model.MaxEmailAttempts {
			m.Status = model.EmailFailed
		}
	})
}

func (s *OutboxRepositoryStub) update(id int64, fn func(*model.EmailMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			fn(&s.Messages[i])
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// Last returns the most recently queued message with template, if any.
func (s *OutboxRepositoryStub) Last(template string) (model.EmailMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Template == template {
			return s.Messages[i], true
		}
	}
	return model.EmailMessage{}, false
}

// EMIRepositoryStub keeps installment plans in memory.
type EMIRepositoryStub struct {
	mu    sync.Mutex
	Plans []model.EMIPlan
}

// Add stores plan, assigning its id.
func (s *EMIRepositoryStub) Add(plan *model.EMIPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan.ID = int64(len(s.Plans) + 1)
	plan.CreatedAt = time.Now()
	stored := *plan
	stored.Installments = append([]model.Installment(nil), plan.Installments...)
	s.Plans = append(s.Plans, stored)
}

func (s *EMIRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.EMIPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.EMIPlan
	for _, p := range s.Plans {
		if p.UserID == userID {
			p.Installments = append([]model.Installment(nil), p.Installments...)
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *EMIRepositoryStub) GetByID(ctx context.Context, id int64) (*model.EMIPlan, error) {
	return s.find(func(p model.EMIPlan) bool { return p.ID == id })
}

func (s *EMIRepositoryStub) GetByOrder(ctx context.Context, orderID string) (*model.EMIPlan, error) {
	return s.find(func(p model.EMIPlan) bool { return p.OrderID == orderID })
}

func (s *EMIRepositoryStub) find(match func(model.EMIPlan) bool) (*model.EMIPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Plans {
		if match(p) {
			p.Installments = append([]model.Installment(nil), p.Installments...)
			return &p, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// CouponRepositoryStub keeps coupons keyed by code.
type CouponRepositoryStub struct {
	mu    sync.Mutex
	Items map[string]*model.Coupon
}

func (s *CouponRepositoryStub) Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Items[coupon.Code]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	created := *coupon
	created.ID = int64(len(s.Items) + 1)
	created.CreatedAt = time.Now()
	s.Items[created.Code] = &created
	out := created
	return &out, nil
}

func (s *CouponRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.Items[code]; ok {
		out := *c
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

func paginate[T any](items []T, page model.Page) []T {
	offset := page.Offset()
	if offset >= len(items) {
		return nil
	}
	end := offset + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
