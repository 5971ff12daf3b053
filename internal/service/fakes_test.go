package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
)

var errScriptExhausted = errors.New("script exhausted")

func atoi(s string) (int, error) { return strconv.Atoi(s) }

type memUsers struct {
	mu sync.Mutex
	m  map[string]domain.User
}

func newMemUsers() *memUsers { return &memUsers{m: map[string]domain.User{}} }

func (u *memUsers) Create(_ context.Context, user domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.m[user.Login] = user
	return nil
}

func (u *memUsers) Authenticate(_ context.Context, login, password string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if usr, ok := u.m[login]; ok && usr.Password == password {
		return login, nil
	}
	return "", nil
}

func (u *memUsers) GetRole(_ context.Context, login string) (domain.Role, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.m[login]
	if !ok {
		return "", apperr.NotFoundf("user %q", login)
	}
	return usr.Role, nil
}

func (u *memUsers) Get(_ context.Context, login string) (domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.m[login]
	if !ok {
		return domain.User{}, apperr.NotFoundf("user %q", login)
	}
	return usr, nil
}

func (u *memUsers) Exists(_ context.Context, login string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.m[login]
	return ok, nil
}

func (u *memUsers) SetFavoriteItems(_ context.Context, login, item string) error {
	return u.set(login, func(usr *domain.User) { usr.FavoriteItems = item })
}

func (u *memUsers) SetPhoneNum(_ context.Context, login, phone string) error {
	return u.set(login, func(usr *domain.User) { usr.PhoneNum = phone })
}

func (u *memUsers) SetPassword(_ context.Context, login, password string) error {
	return u.set(login, func(usr *domain.User) { usr.Password = password })
}

func (u *memUsers) SetLogin(_ context.Context, login, newLogin string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.m[login]
	if !ok {
		return apperr.NotFoundf("user %q", login)
	}
	delete(u.m, login)
	usr.Login = newLogin
	u.m[newLogin] = usr
	return nil
}

func (u *memUsers) SetRole(_ context.Context, login string, role domain.Role) error {
	return u.set(login, func(usr *domain.User) { usr.Role = role })
}

func (u *memUsers) set(login string, fn func(*domain.User)) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.m[login]
	if !ok {
		return apperr.NotFoundf("user %q", login)
	}
	fn(&usr)
	u.m[login] = usr
	return nil
}

type memCatalog struct {
	items   map[string]domain.MenuItem
	renames [][2]string
}

func newMemCatalog(items ...domain.MenuItem) *memCatalog {
	c := &memCatalog{items: map[string]domain.MenuItem{}}
	for _, it := range items {
		c.items[it.Name] = it
	}
	return c
}

func (c *memCatalog) Categories(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, it := range c.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *memCatalog) ByCategory(_ context.Context, category string) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *memCatalog) ByPriceCeiling(_ context.Context, limit float64) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, it := range c.items {
		if it.Price <= limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *memCatalog) Sorted(_ context.Context, direction string) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if direction == "desc" {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out, nil
}

func (c *memCatalog) Get(_ context.Context, name string) (domain.MenuItem, error) {
	it, ok := c.items[name]
	if !ok {
		return domain.MenuItem{}, apperr.NotFoundf("item %q", name)
	}
	return it, nil
}

func (c *memCatalog) Exists(_ context.Context, name string) (bool, error) {
	_, ok := c.items[name]
	return ok, nil
}

func (c *memCatalog) Insert(_ context.Context, item domain.MenuItem) error {
	c.items[item.Name] = item
	return nil
}

func (c *memCatalog) Rename(_ context.Context, name, newName string) error {
	it, ok := c.items[name]
	if !ok {
		return apperr.NotFoundf("item %q", name)
	}
	delete(c.items, name)
	it.Name = newName
	c.items[newName] = it
	c.renames = append(c.renames, [2]string{name, newName})
	return nil
}

func (c *memCatalog) SetIngredients(_ context.Context, name, ingredients string) error {
	return c.update(name, func(it *domain.MenuItem) { it.Ingredients = ingredients })
}

func (c *memCatalog) SetCategory(_ context.Context, name, category string) error {
	return c.update(name, func(it *domain.MenuItem) { it.Category = category })
}

func (c *memCatalog) SetPrice(_ context.Context, name string, price float64) error {
	return c.update(name, func(it *domain.MenuItem) { it.Price = price })
}

func (c *memCatalog) SetDescription(_ context.Context, name, description string) error {
	return c.update(name, func(it *domain.MenuItem) { it.Description = description })
}

func (c *memCatalog) update(name string, fn func(*domain.MenuItem)) error {
	it, ok := c.items[name]
	if !ok {
		return apperr.NotFoundf("item %q", name)
	}
	fn(&it)
	c.items[name] = it
	return nil
}

type memStores struct {
	list []domain.Store
}

func (s *memStores) List(context.Context) ([]domain.Store, error) { return s.list, nil }

func (s *memStores) Address(_ context.Context, storeID int) (string, error) {
	for _, st := range s.list {
		if st.ID == storeID {
			return st.Address, nil
		}
	}
	return "", apperr.NotFoundf("store %d", storeID)
}

type memOrders struct {
	nextID     int64
	headers    map[int64]domain.Order
	lines      map[int64][]domain.CartLine
	failCreate error
}

func newMemOrders() *memOrders {
	return &memOrders{nextID: 1, headers: map[int64]domain.Order{}, lines: map[int64][]domain.CartLine{}}
}

func (o *memOrders) Create(_ context.Context, order domain.Order, cart []domain.CartLine) (int64, error) {
	if o.failCreate != nil {
		return 0, o.failCreate
	}
	id := o.nextID
	o.nextID++
	order.ID = id
	o.headers[id] = order
	o.lines[id] = append([]domain.CartLine(nil), cart...)
	return id, nil
}

func (o *memOrders) IDsByLogin(_ context.Context, login string) ([]int64, error) {
	var out []int64
	for id, h := range o.headers {
		if h.Login == login {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out, nil
}

func (o *memOrders) RecentIDsByLogin(ctx context.Context, login string, limit int) ([]int64, error) {
	ids, err := o.IDsByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (o *memOrders) Header(_ context.Context, orderID int64) (domain.Order, error) {
	h, ok := o.headers[orderID]
	if !ok {
		return domain.Order{}, apperr.NotFoundf("order %d", orderID)
	}
	return h, nil
}

func (o *memOrders) HeaderForLogin(ctx context.Context, orderID int64, login string) (domain.Order, error) {
	h, err := o.Header(ctx, orderID)
	if err != nil || h.Login != login {
		return domain.Order{}, apperr.NotFoundf("order %d", orderID)
	}
	return h, nil
}

func (o *memOrders) Lines(_ context.Context, orderID int64) ([]domain.OrderLine, error) {
	var out []domain.OrderLine
	for _, l := range o.lines[orderID] {
		out = append(out, domain.OrderLine{OrderID: orderID, ItemName: l.ItemName, Quantity: l.Quantity})
	}
	return out, nil
}

func (o *memOrders) SetStatus(_ context.Context, orderID int64, status string) error {
	h, ok := o.headers[orderID]
	if !ok {
		return apperr.NotFoundf("order %d", orderID)
	}
	h.Status = status
	o.headers[orderID] = h
	return nil
}

func (o *memOrders) Exists(_ context.Context, orderID int64) (bool, error) {
	_, ok := o.headers[orderID]
	return ok, nil
}

// scriptReader feeds a fixed input script to the order flow.
type scriptReader struct {
	lines []string
}

func (r *scriptReader) next() (string, bool) {
	if len(r.lines) == 0 {
		return "", false
	}
	l := r.lines[0]
	r.lines = r.lines[1:]
	return l, true
}

func (r *scriptReader) ReadLine(string) (string, error) {
	l, ok := r.next()
	if !ok {
		return "", errScriptExhausted
	}
	return l, nil
}

func (r *scriptReader) ReadInt(string) (int, error) {
	for {
		l, ok := r.next()
		if !ok {
			return 0, errScriptExhausted
		}
		n, err := atoi(l)
		if err != nil {
			continue
		}
		return n, nil
	}
}

type capturePublisher struct {
	exchange string
	key      string
	bodies   [][]byte
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, exchange, key string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.exchange = exchange
	p.key = key
	p.bodies = append(p.bodies, body)
	return nil
}
