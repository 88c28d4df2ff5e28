package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"sabor/internal/domain/entity"
	"sabor/internal/domain/repository"
	"sabor/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// newDiscardLogger creates a logger that discards all output for tests.
func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepoFactory holds one in-memory repository per aggregate. The same
// instances back both the factory and the services' direct repository
// fields, so reads inside and outside transactions see the same data.
type fakeRepoFactory struct {
	users  *fakeUserRepo
	auths  *fakeAuthRepo
	tokens *fakeRefreshTokenRepo
	addrs  *fakeAddressRepo
	carts  *fakeCartRepo
	orders *fakeOrderRepo

	clock time.Time
}

func newFakeRepoFactory() *fakeRepoFactory {
	f := &fakeRepoFactory{
		clock: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	f.users = &fakeUserRepo{factory: f}
	f.auths = &fakeAuthRepo{factory: f}
	f.tokens = &fakeRefreshTokenRepo{byHash: map[string]*entity.RefreshToken{}}
	f.addrs = &fakeAddressRepo{factory: f}
	f.carts = &fakeCartRepo{factory: f}
	f.orders = &fakeOrderRepo{factory: f}

	return f
}

// nextTime hands out strictly increasing timestamps so creation order is
// observable through CreatedAt.
func (f *fakeRepoFactory) nextTime() time.Time {
	f.clock = f.clock.Add(time.Second)

	return f.clock
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository { return f.users }
func (f *fakeRepoFactory) NewAuthRepository() repository.AuthRepository { return f.auths }
func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.tokens
}
func (f *fakeRepoFactory) NewAddressRepository() repository.AddressRepository { return f.addrs }
func (f *fakeRepoFactory) NewCartRepository() repository.CartRepository       { return f.carts }
func (f *fakeRepoFactory) NewOrderRepository() repository.OrderRepository     { return f.orders }

// fakeTxManager runs the callback directly against the in-memory factory.
// There is no rollback; tests assert on the error instead.
type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// --- user repository ---

type fakeUserRepo struct {
	factory *fakeRepoFactory
	users   []*entity.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.factory.nextTime()
	r.users = append(r.users, user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	for i, existing := range r.users {
		if existing.ID == user.ID {
			r.users[i] = user

			return nil
		}
	}

	return repository.ErrUserNotFound
}

// --- authentication repository ---

type fakeAuthRepo struct {
	factory *fakeRepoFactory
	records []*entity.Authentication
}

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	auth.CreatedAt = r.factory.nextTime()
	r.records = append(r.records, auth)

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	for _, record := range r.records {
		if record.Provider == provider && record.ProviderUserID == providerUserID {
			return record, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct {
	byHash map[string]*entity.RefreshToken
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.byHash[token.TokenHash] = token

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	token, ok := r.byHash[tokenHash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return token, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	delete(r.byHash, tokenHash)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	for hash, token := range r.byHash {
		if token.UserID == userID {
			delete(r.byHash, hash)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	now := time.Now()
	for hash, token := range r.byHash {
		if token.ExpiresAt.Before(now) {
			delete(r.byHash, hash)
		}
	}

	return nil
}

// --- address repository ---

type fakeAddressRepo struct {
	factory *fakeRepoFactory
	addrs   []*entity.Address
}

func (r *fakeAddressRepo) CreateAddress(_ context.Context, address *entity.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	address.CreatedAt = r.factory.nextTime()
	r.addrs = append(r.addrs, address)

	return nil
}

func (r *fakeAddressRepo) FindAddressByID(_ context.Context, id uuid.UUID) (*entity.Address, error) {
	for _, address := range r.addrs {
		if address.ID == id {
			return address, nil
		}
	}

	return nil, repository.ErrAddressNotFound
}

func (r *fakeAddressRepo) FindAddressesByUser(_ context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var out []*entity.Address
	for _, address := range r.addrs {
		if address.UserID == userID {
			out = append(out, address)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}

		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *fakeAddressRepo) FindDefaultAddressByUser(_ context.Context, userID uuid.UUID) (*entity.Address, error) {
	for _, address := range r.addrs {
		if address.UserID == userID && address.IsDefault {
			return address, nil
		}
	}

	return nil, repository.ErrAddressNotFound
}

func (r *fakeAddressRepo) UpdateAddress(_ context.Context, address *entity.Address) error {
	for i, existing := range r.addrs {
		if existing.ID == address.ID {
			if address.CreatedAt.IsZero() {
				address.CreatedAt = existing.CreatedAt
			}
			r.addrs[i] = address

			return nil
		}
	}

	return repository.ErrAddressNotFound
}

func (r *fakeAddressRepo) ClearDefaultByUser(_ context.Context, userID uuid.UUID) error {
	for _, address := range r.addrs {
		if address.UserID == userID {
			address.IsDefault = false
		}
	}

	return nil
}

func (r *fakeAddressRepo) DeleteAddress(_ context.Context, id uuid.UUID) error {
	for i, address := range r.addrs {
		if address.ID == id {
			r.addrs = append(r.addrs[:i], r.addrs[i+1:]...)

			return nil
		}
	}

	return nil
}

func (r *fakeAddressRepo) CountAddressesByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, address := range r.addrs {
		if address.UserID == userID {
			count++
		}
	}

	return count, nil
}

// --- cart repository ---

type fakeCartRepo struct {
	factory *fakeRepoFactory
	lines   []*entity.CartLine
}

func (r *fakeCartRepo) CreateLine(_ context.Context, line *entity.CartLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	line.CreatedAt = r.factory.nextTime()
	r.lines = append(r.lines, line)

	return nil
}

func (r *fakeCartRepo) FindLineByKey(_ context.Context, userID uuid.UUID, key string) (*entity.CartLine, error) {
	for _, line := range r.lines {
		if line.UserID == userID && line.Key == key {
			return line, nil
		}
	}

	return nil, repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) FindLinesByUser(_ context.Context, userID uuid.UUID) ([]*entity.CartLine, error) {
	var out []*entity.CartLine
	for _, line := range r.lines {
		if line.UserID == userID {
			out = append(out, line)
		}
	}

	return out, nil
}

// UpdateLine mirrors the real repository: the row is addressed by ID and
// owner, and only the mutable columns are written.
func (r *fakeCartRepo) UpdateLine(_ context.Context, line *entity.CartLine) error {
	for _, existing := range r.lines {
		if existing.ID == line.ID && existing.UserID == line.UserID {
			existing.Key = line.Key
			existing.Quantity = line.Quantity
			existing.Note = line.Note

			return nil
		}
	}

	return repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) DeleteLineByKey(_ context.Context, userID uuid.UUID, key string) error {
	for i, line := range r.lines {
		if line.UserID == userID && line.Key == key {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)

			return nil
		}
	}

	return repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) DeleteLinesByUser(_ context.Context, userID uuid.UUID) error {
	kept := r.lines[:0]
	for _, line := range r.lines {
		if line.UserID != userID {
			kept = append(kept, line)
		}
	}
	r.lines = kept

	return nil
}

// --- order repository ---

type fakeOrderRepo struct {
	factory *fakeRepoFactory
	orders  []*entity.Order
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.PlacedAt = r.factory.nextTime()
	r.orders = append(r.orders, order)

	return nil
}

func (r *fakeOrderRepo) FindOrderByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return order, nil
		}
	}

	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindOrdersByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlacedAt.After(out[j].PlacedAt)
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}

	return out, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id uuid.UUID, status entity.OrderStatus) error {
	for _, order := range r.orders {
		if order.ID == id {
			order.Status = status
			order.UpdatedAt = r.factory.nextTime()

			return nil
		}
	}

	return repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) CountOrdersByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, order := range r.orders {
		if order.UserID == userID {
			count++
		}
	}

	return count, nil
}

// --- catalog repository ---

type fakeCatalogRepo struct {
	stores     []*entity.Store
	categories []*entity.CategorySummary
	products   []*entity.Product
}

func (r *fakeCatalogRepo) ListStores(_ context.Context) ([]*entity.Store, error) {
	return r.stores, nil
}

func (r *fakeCatalogRepo) FindStoreBySlug(_ context.Context, slug string) (*entity.Store, error) {
	for _, store := range r.stores {
		if store.Slug == slug {
			return store, nil
		}
	}

	return nil, repository.ErrStoreNotFound
}

func (r *fakeCatalogRepo) ListCategories(_ context.Context) ([]*entity.CategorySummary, error) {
	return r.categories, nil
}

func (r *fakeCatalogRepo) ListProducts(_ context.Context) ([]*entity.Product, error) {
	return r.products, nil
}

// --- domain service fakes ---

type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (fakePasswordHasher) ValidatePasswordStrength(password string) error {
	if len(password) < 6 {
		return errors.New("password is too short")
	}

	return nil
}

// fakeTokenService issues predictable tokens and validates the ones in its
// claims table.
type fakeTokenService struct {
	claims  map[string]*service.Claims
	counter int
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{claims: map[string]*service.Claims{}}
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	s.counter++
	accessToken := fmt.Sprintf("access-%d-%s", s.counter, userID)
	refreshToken := fmt.Sprintf("refresh-%d-%s", s.counter, userID)
	s.claims[accessToken] = &service.Claims{UserID: userID, Type: "access"}
	s.claims[refreshToken] = &service.Claims{UserID: userID, Type: "refresh"}

	return accessToken, refreshToken, nil
}

func (s *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims, ok := s.claims[tokenString]
	if !ok {
		return nil, errors.New("failed to parse token structure")
	}

	return claims, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	return "hash:" + token
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

// fakeEventPublisher records published events and can be told to fail.
type fakeEventPublisher struct {
	events []*service.OrderEvent
	err    error
}

func (p *fakeEventPublisher) PublishOrderEvent(_ context.Context, event *service.OrderEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *fakeEventPublisher) Close() error { return nil }

type fakeQRCodeService struct{}

func (fakeQRCodeService) GenerateOrderQR(uuid.UUID) ([]byte, error) {
	return []byte{0x89, 0x50, 0x4E, 0x47}, nil
}

func (fakeQRCodeService) ParseOrderQR(string) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

// --- catalog fixtures ---

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newBurgerStore builds a store with one configurable item, open 11:00-23:00.
func newBurgerStore() *entity.Store {
	return &entity.Store{
		ID:          "store-001",
		Slug:        "hamburgueria-do-ze",
		Name:        "Hamburgueria do Zé",
		Rating:      4.7,
		DeliveryFee: "R$ 7,50",
		Latitude:    -23.5505,
		Longitude:   -46.6333,
		Schedule:    entity.StoreSchedule{OpensAt: 11 * 60, ClosesAt: 23 * 60},
		Categories: []entity.MenuCategory{
			{
				Name: "Hambúrgueres",
				Items: []entity.MenuItem{
					{
						ID:        "item-burger",
						Name:      "X-Salada",
						BasePrice: mustDecimal("28.90"),
						AddOnGroups: []entity.AddOnGroup{
							{
								Title:         "Ponto da carne",
								MinSelections: 1,
								MaxSelections: 1,
								Options: []entity.AddOnOption{
									{Name: "Ao ponto", Price: decimal.Zero},
									{Name: "Bem passado", Price: decimal.Zero},
								},
							},
							{
								Title:         "Extras",
								MinSelections: 0,
								MaxSelections: 2,
								Options: []entity.AddOnOption{
									{Name: "Bacon", Price: mustDecimal("5.00")},
									{Name: "Cheddar", Price: mustDecimal("4.50")},
								},
							},
						},
					},
					{
						ID:        "item-fries",
						Name:      "Batata Frita",
						BasePrice: mustDecimal("14.00"),
					},
				},
			},
		},
	}
}

// burgerSelections is a valid selection for the X-Salada fixture.
func burgerSelections() entity.AddOnSelection {
	return entity.AddOnSelection{
		"ponto-da-carne": {"Ao ponto"},
		"extras":         {"Bacon"},
	}
}
