package interactor

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturashop/checkout/internal/config"
	"github.com/venturashop/checkout/internal/domain/models"
	apperrors "github.com/venturashop/checkout/internal/errors"
	"github.com/venturashop/checkout/internal/infrastructure/gateway"
	"sync"
	"testing"
	"time"
)

var (
	testUserID    = "f60ae2e1-ee72-4a6a-bef2-7cde5c83782f"
	testCheckout  = config.Checkout{Tax: "4.00", Currency: "NGN", BaseURL: "http://localhost:3000"}
	testGatewayID = models.GatewayFlutterwave
)

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
	items map[string][]models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: make(map[string]*models.Cart),
		items: make(map[string][]models.CartItem),
	}
}

func (f *fakeCartRepo) addCart(code string, paid bool, items []models.CartItem) *models.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := &models.Cart{ID: uuid.New().String(), CartCode: code, Paid: paid}
	f.carts[code] = cart
	f.items[cart.ID] = items
	return cart
}

func (f *fakeCartRepo) markPaid(cartID, userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.ID == cartID {
			cart.Paid = true
			if userID != "" {
				cart.UserID = userID
			}
			return true
		}
	}
	return false
}

func (f *fakeCartRepo) GetByCode(_ context.Context, code string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[code]
	if !ok {
		return nil, apperrors.NewNotFoundError("cart")
	}
	copied := *cart
	return &copied, nil
}

func (f *fakeCartRepo) GetOrCreateByCode(ctx context.Context, code string) (*models.Cart, error) {
	if cart, err := f.GetByCode(ctx, code); err == nil {
		return cart, nil
	}
	return f.addCart(code, false, nil), nil
}

func (f *fakeCartRepo) GetItems(_ context.Context, cartID string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[cartID], nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, cartID, productID string) (*models.CartItem, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCartRepo) UpdateItemQuantity(_ context.Context, itemID string, quantity int) (*models.CartItem, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, itemID string) error {
	return errors.New("not implemented")
}

func (f *fakeCartRepo) ContainsProduct(_ context.Context, cartID, productID string) (bool, error) {
	return false, errors.New("not implemented")
}

// fakeLedger reproduces the storage contract: compare-and-set transitions and
// the completion folded together with the cart flip.
type fakeLedger struct {
	mu        sync.Mutex
	rows      map[string]*models.Transaction
	carts     *fakeCartRepo
	completed int
	failed    int
}

func newFakeLedger(carts *fakeCartRepo) *fakeLedger {
	return &fakeLedger{rows: make(map[string]*models.Transaction), carts: carts}
}

func (f *fakeLedger) Open(_ context.Context, transaction *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[transaction.Reference]; ok {
		return apperrors.NewDuplicateReferenceError()
	}
	transaction.ID = uuid.New().String()
	transaction.Status = models.StatusPending
	transaction.CreatedAt = time.Now()
	copied := *transaction
	f.rows[transaction.Reference] = &copied
	return nil
}

func (f *fakeLedger) GetByReference(_ context.Context, reference string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[reference]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction")
	}
	copied := *row
	return &copied, nil
}

func (f *fakeLedger) CompleteAndMarkCartPaid(_ context.Context, reference string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[reference]
	if !ok || row.Status != models.StatusPending {
		return apperrors.NewInvalidTransitionError()
	}
	row.Status = models.StatusCompleted
	f.completed++
	f.carts.markPaid(row.CartID, userID)
	return nil
}

func (f *fakeLedger) Fail(_ context.Context, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[reference]
	if !ok || row.Status != models.StatusPending {
		return apperrors.NewInvalidTransitionError()
	}
	row.Status = models.StatusFailed
	f.failed++
	return nil
}

func (f *fakeLedger) FailOlderThan(_ context.Context, cutoff time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expired := make([]string, 0)
	for reference, row := range f.rows {
		if row.Status == models.StatusPending && row.CreatedAt.Before(cutoff) {
			row.Status = models.StatusFailed
			expired = append(expired, reference)
		}
	}
	return expired, nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if id != testUserID {
		return nil, apperrors.NewNotFoundError("user")
	}
	return &models.User{ID: id, Username: "tester", Email: "tester@example.com"}, nil
}

type fakeAdapter struct {
	mu          sync.Mutex
	name        string
	handle      *gateway.Handle
	initiateErr error
	outcome     *gateway.SettlementOutcome
	verifyErr   error
	initiations []gateway.InitiationRequest
	verifies    int
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Initiate(_ context.Context, req gateway.InitiationRequest) (*gateway.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiations = append(f.initiations, req)
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return f.handle, nil
}

func (f *fakeAdapter) Verify(_ context.Context, cb gateway.CallbackData) (*gateway.SettlementOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifies++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	outcome := *f.outcome
	outcome.Reference = cb.Reference
	return &outcome, nil
}

func testItems() []models.CartItem {
	return []models.CartItem{
		{ID: "1", ProductID: "p1", ProductName: "Shirt", ProductPrice: decimal.RequireFromString("10.00"), Quantity: 2},
		{ID: "2", ProductID: "p2", ProductName: "Cap", ProductPrice: decimal.RequireFromString("5.00"), Quantity: 1},
	}
}

func newTestInteractor(adapter *fakeAdapter) (*CheckoutInteractor, *fakeLedger, *fakeCartRepo) {
	carts := newFakeCartRepo()
	ledger := newFakeLedger(carts)
	interactor := NewCheckoutInteractor(ledger, carts, &fakeUserRepo{}, []gateway.Adapter{adapter}, testCheckout)
	return interactor, ledger, carts
}

func successfulAdapter() *fakeAdapter {
	return &fakeAdapter{
		name:   testGatewayID,
		handle: &gateway.Handle{ApprovalURL: "https://pay.example.com/abc"},
		outcome: &gateway.SettlementOutcome{
			Success:  true,
			Amount:   decimal.RequireFromString("29.00"),
			Currency: "NGN",
		},
	}
}

func TestCartTotal(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.CartItem
		expected string
	}{
		{"empty cart", nil, "0"},
		{"two line items", testItems(), "25"},
		{
			"quantity multiplies price",
			[]models.CartItem{{ProductPrice: decimal.RequireFromString("3.33"), Quantity: 3}},
			"9.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CartTotal(tt.items).Equal(decimal.RequireFromString(tt.expected)),
				"got %s", CartTotal(tt.items))
		})
	}
}

func TestStartCheckout(t *testing.T) {
	t.Run("computes total as sum of lines plus tax", func(t *testing.T) {
		adapter := successfulAdapter()
		interactor, ledger, carts := newTestInteractor(adapter)
		carts.addCart("cart-1", false, testItems())

		response, err := interactor.StartCheckout("cart-1", testUserID, testGatewayID)
		require.NoError(t, err)
		require.NotEmpty(t, response.Reference)
		assert.Equal(t, "https://pay.example.com/abc", response.ApprovalURL)

		transaction, err := ledger.GetByReference(context.Background(), response.Reference)
		require.NoError(t, err)
		assert.True(t, transaction.Amount.Equal(decimal.RequireFromString("29.00")), "got %s", transaction.Amount)
		assert.Equal(t, "NGN", transaction.Currency)
		assert.Equal(t, models.StatusPending, transaction.Status)
		assert.Equal(t, testGatewayID, transaction.Gateway)

		require.Len(t, adapter.initiations, 1)
		assert.True(t, adapter.initiations[0].Amount.Equal(decimal.RequireFromString("29.00")))
	})

	t.Run("already paid cart is rejected without a ledger entry", func(t *testing.T) {
		adapter := successfulAdapter()
		interactor, ledger, carts := newTestInteractor(adapter)
		carts.addCart("cart-1", true, testItems())

		_, err := interactor.StartCheckout("cart-1", testUserID, testGatewayID)

		var alreadyPaid *apperrors.AlreadyPaidError
		assert.True(t, apperrors.As(err, &alreadyPaid))
		assert.Empty(t, ledger.rows)
		assert.Empty(t, adapter.initiations)
	})

	t.Run("unknown cart", func(t *testing.T) {
		interactor, _, _ := newTestInteractor(successfulAdapter())

		_, err := interactor.StartCheckout("missing", testUserID, testGatewayID)

		var notFound *apperrors.NotFoundError
		assert.True(t, apperrors.As(err, &notFound))
	})

	t.Run("unknown gateway", func(t *testing.T) {
		interactor, _, carts := newTestInteractor(successfulAdapter())
		carts.addCart("cart-1", false, testItems())

		_, err := interactor.StartCheckout("cart-1", testUserID, "stripe")

		var badRequest *apperrors.BadRequestError
		assert.True(t, apperrors.As(err, &badRequest))
	})

	t.Run("gateway failure terminalizes the transaction", func(t *testing.T) {
		adapter := successfulAdapter()
		adapter.initiateErr = apperrors.NewGatewayUnreachableError(fmt.Errorf("connection refused"))
		interactor, ledger, carts := newTestInteractor(adapter)
		carts.addCart("cart-1", false, testItems())

		_, err := interactor.StartCheckout("cart-1", testUserID, testGatewayID)

		var unreachable *apperrors.GatewayUnreachableError
		assert.True(t, apperrors.As(err, &unreachable))
		require.Len(t, ledger.rows, 1)
		for _, row := range ledger.rows {
			assert.Equal(t, models.StatusFailed, row.Status)
		}
	})
}

func TestHandleCallback(t *testing.T) {
	startCheckout := func(t *testing.T, interactor *CheckoutInteractor, carts *fakeCartRepo) string {
		carts.addCart("cart-1", false, testItems())
		response, err := interactor.StartCheckout("cart-1", testUserID, testGatewayID)
		require.NoError(t, err)
		return response.Reference
	}

	t.Run("matching verification completes the transaction and pays the cart", func(t *testing.T) {
		adapter := successfulAdapter()
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		response, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
		require.NoError(t, err)
		assert.True(t, response.Settled)
		assert.Equal(t, "Payment successful!", response.Message)

		transaction, err := ledger.GetByReference(context.Background(), reference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, transaction.Status)

		cart, err := carts.GetByCode(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.True(t, cart.Paid)
		assert.Equal(t, testUserID, cart.UserID)
	})

	t.Run("amount mismatch fails verification even with matching currency", func(t *testing.T) {
		adapter := successfulAdapter()
		adapter.outcome.Amount = decimal.RequireFromString("28.00")
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		response, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
		require.NoError(t, err)
		assert.False(t, response.Settled)
		assert.Equal(t, "Payment verification failed.", response.Message)

		transaction, err := ledger.GetByReference(context.Background(), reference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, transaction.Status)

		cart, err := carts.GetByCode(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.False(t, cart.Paid)
	})

	t.Run("currency mismatch fails verification even with matching amount", func(t *testing.T) {
		adapter := successfulAdapter()
		adapter.outcome.Currency = "USD"
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		response, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
		require.NoError(t, err)
		assert.False(t, response.Settled)

		transaction, err := ledger.GetByReference(context.Background(), reference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, transaction.Status)
	})

	t.Run("provider-reported failure fails the transaction", func(t *testing.T) {
		adapter := successfulAdapter()
		adapter.outcome.Success = false
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		response, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "failed"}, testUserID)
		require.NoError(t, err)
		assert.False(t, response.Settled)
		assert.Equal(t, "Payment was not successful.", response.Message)

		transaction, err := ledger.GetByReference(context.Background(), reference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, transaction.Status)
	})

	t.Run("provider error during verification leaves the transaction pending", func(t *testing.T) {
		adapter := successfulAdapter()
		adapter.verifyErr = apperrors.NewGatewayRejectedError("service unavailable")
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		_, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)

		var rejected *apperrors.GatewayRejectedError
		require.True(t, apperrors.As(err, &rejected))

		transaction, err := ledger.GetByReference(context.Background(), reference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, transaction.Status, "a provider error must not terminalize the transaction")
		assert.Zero(t, ledger.failed)

		// The provider recovers and the replayed callback settles normally.
		adapter.verifyErr = nil
		response, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
		require.NoError(t, err)
		assert.True(t, response.Settled)
	})

	t.Run("unknown reference is rejected and mutates nothing", func(t *testing.T) {
		adapter := successfulAdapter()
		interactor, _, carts := newTestInteractor(adapter)
		carts.addCart("cart-1", false, testItems())

		_, err := interactor.HandleCallback(uuid.New().String(), gateway.CallbackData{Status: "successful"}, testUserID)

		var notFound *apperrors.NotFoundError
		assert.True(t, apperrors.As(err, &notFound))
		assert.Zero(t, adapter.verifies)

		cart, err := carts.GetByCode(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.False(t, cart.Paid)
	})

	t.Run("duplicate callback returns the stored result without re-verifying", func(t *testing.T) {
		adapter := successfulAdapter()
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		first, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
		require.NoError(t, err)
		require.True(t, first.Settled)

		second, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
		require.NoError(t, err)
		assert.True(t, second.Settled)
		assert.Equal(t, first.Message, second.Message)
		assert.Equal(t, 1, adapter.verifies)
		assert.Equal(t, 1, ledger.completed)
	})

	t.Run("concurrent callbacks settle exactly once", func(t *testing.T) {
		adapter := successfulAdapter()
		interactor, ledger, carts := newTestInteractor(adapter)
		reference := startCheckout(t, interactor, carts)

		n := 50
		responses := make(chan bool, n)
		var wg sync.WaitGroup
		wg.Add(n)

		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				response, err := interactor.HandleCallback(reference, gateway.CallbackData{Status: "successful"}, testUserID)
				if err != nil {
					t.Error(err)
					return
				}
				responses <- response.Settled
			}()
		}

		wg.Wait()
		close(responses)

		for settled := range responses {
			assert.True(t, settled, "every duplicate must see the settled result")
		}
		assert.Equal(t, 1, ledger.completed, "only one callback may apply the transition")

		cart, err := carts.GetByCode(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.True(t, cart.Paid)
	})
}
