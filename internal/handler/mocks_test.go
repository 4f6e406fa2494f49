package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-marketplace/internal/model"
	"github.com/iliyamo/book-marketplace/internal/payment"
	"github.com/iliyamo/book-marketplace/internal/queue"
)

// Function-field fakes so each test overrides only what it exercises.

type mockOrderStore struct {
	CreateFunc           func(ctx context.Context, o *model.Order) (string, error)
	ListFunc             func(ctx context.Context) ([]model.Order, error)
	ListByCustomerFunc   func(ctx context.Context, email string) ([]model.Order, error)
	ListBySellerFunc     func(ctx context.Context, email string) ([]model.Order, error)
	ListPaidInvoicesFunc func(ctx context.Context, email string) ([]model.Order, error)
	GetByIDFunc          func(ctx context.Context, id string) (model.Order, error)
	UpdateStatusFunc     func(ctx context.Context, id, status string) error
	MarkPaidFunc         func(ctx context.Context, id, txn string, paidAt time.Time) (bool, error)
	DeleteFunc           func(ctx context.Context, id string) error
}

func (m *mockOrderStore) Create(ctx context.Context, o *model.Order) (string, error) {
	return m.CreateFunc(ctx, o)
}

func (m *mockOrderStore) List(ctx context.Context) ([]model.Order, error) {
	return m.ListFunc(ctx)
}

func (m *mockOrderStore) ListByCustomer(ctx context.Context, email string) ([]model.Order, error) {
	return m.ListByCustomerFunc(ctx, email)
}

func (m *mockOrderStore) ListBySeller(ctx context.Context, email string) ([]model.Order, error) {
	return m.ListBySellerFunc(ctx, email)
}

func (m *mockOrderStore) ListPaidInvoices(ctx context.Context, email string) ([]model.Order, error) {
	return m.ListPaidInvoicesFunc(ctx, email)
}

func (m *mockOrderStore) GetByID(ctx context.Context, id string) (model.Order, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockOrderStore) MarkPaid(ctx context.Context, id, txn string, paidAt time.Time) (bool, error) {
	return m.MarkPaidFunc(ctx, id, txn, paidAt)
}

func (m *mockOrderStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockUserStore struct {
	UpsertFunc     func(ctx context.Context, email string) (bool, error)
	GetByEmailFunc func(ctx context.Context, email string) (model.User, error)
	GetByIDFunc    func(ctx context.Context, id string) (model.User, error)
	UpdateRoleFunc func(ctx context.Context, id, role string) error
}

func (m *mockUserStore) Upsert(ctx context.Context, email string) (bool, error) {
	return m.UpsertFunc(ctx, email)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserStore) UpdateRole(ctx context.Context, id, role string) error {
	return m.UpdateRoleFunc(ctx, id, role)
}

type mockBookStore struct {
	CreateFunc        func(ctx context.Context, b *model.Book) (string, error)
	ListFunc          func(ctx context.Context) ([]model.Book, error)
	GetByIDFunc       func(ctx context.Context, id string) (model.Book, error)
	UpdateFunc        func(ctx context.Context, id string, b model.Book) error
	UpdateStatusFunc  func(ctx context.Context, id, status string) error
	DeleteCascadeFunc func(ctx context.Context, id string) (int64, error)
}

func (m *mockBookStore) Create(ctx context.Context, b *model.Book) (string, error) {
	return m.CreateFunc(ctx, b)
}

func (m *mockBookStore) List(ctx context.Context) ([]model.Book, error) {
	return m.ListFunc(ctx)
}

func (m *mockBookStore) GetByID(ctx context.Context, id string) (model.Book, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockBookStore) Update(ctx context.Context, id string, b model.Book) error {
	return m.UpdateFunc(ctx, id, b)
}

func (m *mockBookStore) UpdateStatus(ctx context.Context, id, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockBookStore) DeleteCascade(ctx context.Context, id string) (int64, error) {
	return m.DeleteCascadeFunc(ctx, id)
}

type mockWishlistStore struct {
	AddFunc        func(ctx context.Context, item *model.WishlistItem) (string, error)
	ListByUserFunc func(ctx context.Context, email string) ([]model.WishlistItem, error)
	RemoveFunc     func(ctx context.Context, id string) error
}

func (m *mockWishlistStore) Add(ctx context.Context, item *model.WishlistItem) (string, error) {
	return m.AddFunc(ctx, item)
}

func (m *mockWishlistStore) ListByUser(ctx context.Context, email string) ([]model.WishlistItem, error) {
	return m.ListByUserFunc(ctx, email)
}

func (m *mockWishlistStore) Remove(ctx context.Context, id string) error {
	return m.RemoveFunc(ctx, id)
}

// mockPublisher records events instead of touching the broker.
type mockPublisher struct {
	created []queue.OrderCreatedEvent
	paid    []queue.OrderPaidEvent
}

func (m *mockPublisher) OrderCreated(_ context.Context, ev queue.OrderCreatedEvent) error {
	m.created = append(m.created, ev)
	return nil
}

func (m *mockPublisher) OrderPaid(_ context.Context, ev queue.OrderPaidEvent) error {
	m.paid = append(m.paid, ev)
	return nil
}

type mockGateway struct {
	CreateFunc   func(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error)
	RetrieveFunc func(ctx context.Context, id string) (payment.Session, error)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error) {
	return m.CreateFunc(ctx, req)
}

func (m *mockGateway) RetrieveSession(ctx context.Context, id string) (payment.Session, error) {
	return m.RetrieveFunc(ctx, id)
}

// newTestCtx builds an echo context around an in-memory request and
// returns the recorder capturing the response.
func newTestCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// decodeBody unmarshals the recorded JSON response.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
