package server_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ハンドラテスト用のインメモリ実装
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*model.User
	profiles  map[int64]model.Profile
	addresses map[int64]model.Address
	orders    []model.Order
	items     []model.OrderItem
	outbox    []model.OutboxEvent
	products  []model.Product
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int64]*model.User{},
		profiles:  map[int64]model.Profile{},
		addresses: map[int64]model.Address{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// users

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if x.Email == u.Email || x.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = r.s.id()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUsers) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) IncrementTokenVersion(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (r memUsers) List(ctx context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return lo.Map(lo.Values(r.s.users), func(u *model.User, _ int) model.User { return *u }), nil
}

// profiles

type memProfiles struct{ s *memStore }

func (r memProfiles) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return model.Profile{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProfiles) GetOrCreate(ctx context.Context, userID int64, newID string) (model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.profiles[userID]; ok {
		return p, nil
	}
	p := model.Profile{ID: newID, UserID: userID}
	r.s.profiles[userID] = p
	return p, nil
}

func (r memProfiles) Upsert(ctx context.Context, p model.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.profiles[p.UserID]; ok {
		p.ID = cur.ID
	}
	r.s.profiles[p.UserID] = p
	return nil
}

// addresses

type memAddresses struct{ s *memStore }

func (r memAddresses) Create(ctx context.Context, a model.Address) (model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.id()
	r.s.addresses[a.ID] = a
	return a, nil
}

func (r memAddresses) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return lo.Filter(lo.Values(r.s.addresses), func(a model.Address, _ int) bool { return a.UserID == userID }), nil
}

func (r memAddresses) FindByIDForUser(ctx context.Context, addressID, userID int64) (model.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.addresses[addressID]
	if !ok || a.UserID != userID {
		return model.Address{}, repo.ErrNotFound
	}
	return a, nil
}

func (r memAddresses) Update(ctx context.Context, a model.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.addresses[a.ID] = a
	return nil
}

func (r memAddresses) Delete(ctx context.Context, addressID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.addresses[addressID]
	if !ok || a.UserID != userID {
		return repo.ErrNotFound
	}
	if lo.ContainsBy(r.s.orders, func(o model.Order) bool { return o.AddressID == addressID }) {
		return gorm.ErrForeignKeyViolated
	}
	delete(r.s.addresses, addressID)
	return nil
}

func (r memAddresses) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	_, err := r.FindByIDForUser(ctx, addressID, userID)
	return err == nil, nil
}

// orders

type memOrders struct{ s *memStore }

func (r memOrders) Create(ctx context.Context, o model.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.id()
	r.s.orders = append(r.s.orders, o)
	return o.ID, nil
}

func (r memOrders) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		if r.s.orders[i].UserID == userID {
			out = append(out, r.s.orders[i])
		}
	}
	return out, nil
}

func (r memOrders) FindByIDForUser(ctx context.Context, orderID, userID int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := lo.Find(r.s.orders, func(o model.Order) bool { return o.ID == orderID && o.UserID == userID })
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

type memOrderItems struct{ s *memStore }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		it.ID = r.s.id()
		it.OrderID = orderID
		r.s.items = append(r.s.items, it)
	}
	return nil
}

func (r memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return r.ListByOrderIDs(ctx, []int64{orderID})
}

func (r memOrderItems) ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return lo.Filter(r.s.items, func(it model.OrderItem, _ int) bool { return lo.Contains(orderIDs, it.OrderID) }), nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Create(ctx context.Context, e model.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	r.s.outbox = append(r.s.outbox, e)
	return nil
}

func (r memOutbox) FetchPending(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	return nil, nil
}

func (r memOutbox) MarkProcessed(ctx context.Context, id int64, at time.Time) error {
	return nil
}

// ロールバックはしない（失敗系はusecaseのテストで見る）
type memTx struct{ s *memStore }

func (t memTx) Orders() repo.OrderRepository         { return memOrders(t) }
func (t memTx) OrderItems() repo.OrderItemRepository { return memOrderItems(t) }
func (t memTx) Addresses() repo.AddressRepository    { return memAddresses(t) }
func (t memTx) Outbox() repo.OutboxRepository        { return memOutbox(t) }

func (t memTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t)
}

// products

type memProducts struct{ s *memStore }

func (r memProducts) ListAll(ctx context.Context) ([]model.Product, error) {
	return r.s.products, nil
}

func (r memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := lo.Find(r.s.products, func(p model.Product) bool { return p.ID == id })
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) Search(ctx context.Context, q string) ([]model.Product, error) {
	q = strings.ToLower(q)
	return lo.Filter(r.s.products, func(p model.Product, _ int) bool {
		return strings.Contains(strings.ToLower(p.Name), q)
	}), nil
}

func (r memProducts) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.ToLower(category)
	return lo.Filter(r.s.products, func(p model.Product, _ int) bool {
		return strings.Contains(strings.ToLower(p.Category), category)
	}), nil
}

func (r memProducts) Count(ctx context.Context) (int64, error) {
	return int64(len(r.s.products)), nil
}

func (r memProducts) CreateBatch(ctx context.Context, products []model.Product) error {
	r.s.products = append(r.s.products, products...)
	return nil
}
