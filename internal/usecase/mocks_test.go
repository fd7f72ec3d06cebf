//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- product repository ---

type mockProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
	findErr  error
}

func newMockProductRepo(products ...*model.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[string]*model.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) ListAvailable(_ context.Context, _ repository.Tx) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Product
	for _, p := range m.products {
		if p.IsAvailable {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Save(_ context.Context, _ repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

// --- account repository ---

type mockAccountRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*model.Account
	createErr error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byEmail: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountRepo) Create(_ context.Context, _ repository.Tx, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if existing, ok := m.byEmail[a.Email]; ok {
		// converge on the canonical row, mirroring the ON CONFLICT upsert
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		return nil
	}
	cp := *a
	m.byEmail[a.Email] = &cp
	return nil
}

func (m *mockAccountRepo) CountAccounts(_ context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byEmail), nil
}

func (m *mockAccountRepo) snapshot() map[string]*model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]*model.Account, len(m.byEmail))
	for k, v := range m.byEmail {
		a := *v
		cp[k] = &a
	}
	return cp
}

func (m *mockAccountRepo) restore(s map[string]*model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail = s
}

// --- order repository ---

type mockOrderRepo struct {
	mu         sync.Mutex
	byCharge   map[string]*model.Order
	products   *mockProductRepo
	accounts   *mockAccountRepo
	createErr  error
	listErr    error
	findMisses int // make FindByChargeID miss N times, to force the insert-race path
}

func newMockOrderRepo(products *mockProductRepo, accounts *mockAccountRepo) *mockOrderRepo {
	return &mockOrderRepo{
		byCharge: make(map[string]*model.Order),
		products: products,
		accounts: accounts,
	}
}

func (m *mockOrderRepo) Create(_ context.Context, _ repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byCharge[o.ChargeID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *o
	m.byCharge[o.ChargeID] = &cp
	return nil
}

func (m *mockOrderRepo) FindByChargeID(_ context.Context, _ repository.Tx, chargeID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findMisses > 0 {
		m.findMisses--
		return nil, domain.ErrNotFound
	}
	o, ok := m.byCharge[chargeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) summaries() []*model.OrderSummary {
	var out []*model.OrderSummary
	for _, o := range m.byCharge {
		s := &model.OrderSummary{
			ID:         o.ID,
			ProductID:  o.ProductID,
			PriceCents: o.PriceCents,
			CreatedAt:  o.CreatedAt,
		}
		if p, ok := m.products.products[o.ProductID]; ok {
			s.ProductName = p.Name
		}
		for _, a := range m.accounts.byEmail {
			if a.ID == o.AccountID {
				s.Email = a.Email
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockOrderRepo) ListRecent(_ context.Context, _ repository.Tx, offset, limit int) ([]*model.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	all := m.summaries()
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockOrderRepo) ListByEmail(_ context.Context, _ repository.Tx, email string) ([]*model.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.OrderSummary
	for _, s := range m.summaries() {
		if s.Email == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) CountOrders(_ context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byCharge), nil
}

func (m *mockOrderRepo) SumRevenueByPeriod(_ context.Context, _ repository.Tx, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cutoff time.Time
	now := time.Now()
	switch period {
	case "week":
		cutoff = now.AddDate(0, 0, -7)
	case "month":
		cutoff = now.AddDate(0, -1, 0)
	case "year":
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return 0, fmt.Errorf("unknown period %q", period)
	}
	var sum int64
	for _, o := range m.byCharge {
		if o.CreatedAt.After(cutoff) {
			sum += o.PriceCents
		}
	}
	return sum, nil
}

func (m *mockOrderRepo) snapshot() map[string]*model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]*model.Order, len(m.byCharge))
	for k, v := range m.byCharge {
		o := *v
		cp[k] = &o
	}
	return cp
}

func (m *mockOrderRepo) restore(s map[string]*model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byCharge = s
}

// --- download grant repository ---

type mockGrantRepo struct {
	mu        sync.Mutex
	grants    map[string]*model.DownloadGrant
	createErr error
	findErr   error
}

func newMockGrantRepo() *mockGrantRepo {
	return &mockGrantRepo{grants: make(map[string]*model.DownloadGrant)}
}

func (m *mockGrantRepo) Create(_ context.Context, _ repository.Tx, g *model.DownloadGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *g
	m.grants[g.ID] = &cp
	return nil
}

func (m *mockGrantRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.DownloadGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	g, ok := m.grants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockGrantRepo) snapshot() map[string]*model.DownloadGrant {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]*model.DownloadGrant, len(m.grants))
	for k, v := range m.grants {
		g := *v
		cp[k] = &g
	}
	return cp
}

func (m *mockGrantRepo) restore(s map[string]*model.DownloadGrant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants = s
}

// --- transaction manager ---

// mockTxManager snapshots repo state before running fn and restores it when
// fn errors, imitating a rollback.
type mockTxManager struct {
	accounts *mockAccountRepo
	orders   *mockOrderRepo
	grants   *mockGrantRepo
	txErr    error
}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	accounts := m.accounts.snapshot()
	orders := m.orders.snapshot()
	grants := m.grants.snapshot()
	if err := fn(ctx, struct{}{}); err != nil {
		m.accounts.restore(accounts)
		m.orders.restore(orders)
		m.grants.restore(grants)
		return err
	}
	return nil
}

// --- mailer ---

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (m *mockMailer) Name() string { return "mock" }

func (m *mockMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// --- download token signer ---

type mockSigner struct {
	signErr error
}

func (s *mockSigner) Sign(grantID, productID string, _ time.Time) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "tok." + grantID + "." + productID, nil
}

func (s *mockSigner) Verify(token string) (string, string, error) {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 || parts[0] != "tok" {
		return "", "", domain.ErrInvalidArgument
	}
	return parts[1], parts[2], nil
}

// --- locker ---

type mockLocker struct {
	mu      sync.Mutex
	locks   int
	unlocks int
	tryErr  error
}

func (l *mockLocker) TryLock(_ context.Context, _ string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tryErr != nil {
		return "", l.tryErr
	}
	l.locks++
	return "token", nil
}

func (l *mockLocker) Unlock(_ context.Context, _, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocks++
	return nil
}
