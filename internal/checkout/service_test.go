package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nivora-bio/labcart-backend/internal/cart"
	"github.com/nivora-bio/labcart-backend/internal/payments"
	"github.com/nivora-bio/labcart-backend/internal/pricing"
	"github.com/nivora-bio/labcart-backend/pkg/config"
	"github.com/nivora-bio/labcart-backend/pkg/db/models"
	"github.com/nivora-bio/labcart-backend/pkg/enums"
	pkgerrors "github.com/nivora-bio/labcart-backend/pkg/errors"
	"github.com/nivora-bio/labcart-backend/pkg/types"
)

type stubGateway struct {
	err     error
	charges []payments.ChargeInput
}

func (s *stubGateway) Charge(_ context.Context, input payments.ChargeInput) (*payments.ChargeResult, error) {
	s.charges = append(s.charges, input)
	if s.err != nil {
		return nil, s.err
	}
	return &payments.ChargeResult{Reference: "sq-payment-123", Status: "COMPLETED"}, nil
}

type stubOrderStore struct {
	created    []*models.Order
	paid       map[uuid.UUID]string
	createErr  error
	markedErrs error
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{paid: make(map[uuid.UUID]string)}
}

func (s *stubOrderStore) Create(_ context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrderStore) MarkPaid(_ context.Context, id uuid.UUID, ref string) error {
	if s.markedErrs != nil {
		return s.markedErrs
	}
	s.paid[id] = ref
	return nil
}

type stubCarrier struct {
	submitted []*models.Order
	err       error
}

func (s *stubCarrier) SubmitOrder(_ context.Context, order *models.Order) error {
	s.submitted = append(s.submitted, order)
	return s.err
}

type stubLocker struct {
	held map[string]bool
}

func (s *stubLocker) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if s.held == nil {
		s.held = make(map[string]bool)
	}
	if s.held[key] {
		return false, nil
	}
	s.held[key] = true
	return true, nil
}

func (s *stubLocker) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.held, key)
	}
	return nil
}

func (s *stubLocker) CheckoutLockKey(sessionID string) string {
	return "lc:checkout:" + sessionID
}

func pricingCfg() config.PricingConfig {
	return config.PricingConfig{
		FreeShippingThreshold: decimal.RequireFromString("300"),
		StandardShippingFee:   decimal.RequireFromString("49.99"),
		ExpressShippingFee:    decimal.RequireFromString("89.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func testAddress() types.Address {
	return types.Address{
		Name:       "Dana Researcher",
		Line1:      "1 Bench Way",
		City:       "Cambridge",
		State:      "ma",
		PostalCode: "02139",
	}
}

func seedCart(t *testing.T, mgr *cart.Manager, sessionID string) *cart.Store {
	t.Helper()

	store := mgr.Store(context.Background(), sessionID)
	store.AddItem(cart.LineItem{
		ProductID:   uuid.New(),
		SKU:         "LC-BPC157",
		ProductName: "BPC-157 5mg",
		UnitPrice:   decimal.RequireFromString("24.99"),
		Quantity:    2,
	})
	store.AddItem(cart.LineItem{
		ProductID:   uuid.New(),
		SKU:         "LC-GHKCU",
		ProductName: "GHK-CU 50mg",
		UnitPrice:   decimal.RequireFromString("42.99"),
		Quantity:    1,
	})
	return store
}

func validInput() Input {
	return Input{
		SessionID:       "sess-1",
		CustomerEmail:   "lab@example.com",
		PaymentSourceID: "cnon:card-nonce",
		ShippingMethod:  enums.ShippingMethodStandard,
		ShippingAddress: testAddress(),
	}
}

func TestExecuteSuccessClearsCart(t *testing.T) {
	mgr := cart.NewManager(nil, nil)
	store := seedCart(t, mgr, "sess-1")
	gateway := &stubGateway{}
	ordersStore := newStubOrderStore()
	carrier := &stubCarrier{}

	svc := NewService(mgr, pricingCfg(), gateway, ordersStore, carrier, &stubLocker{}, nil, nil)

	result, err := svc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 92.97 subtotal + 49.99 shipping + 7.44 tax = 150.40.
	if !result.Breakdown.Total.Equal(decimal.RequireFromString("150.40")) {
		t.Fatalf("expected total 150.40, got %s", result.Breakdown.Total)
	}
	if result.PaymentRef != "sq-payment-123" {
		t.Fatalf("expected payment reference to pass through, got %q", result.PaymentRef)
	}

	if len(ordersStore.created) != 1 {
		t.Fatalf("expected one persisted order")
	}
	order := ordersStore.created[0]
	if order.TotalCents != 15040 {
		t.Fatalf("expected 15040 cents, got %d", order.TotalCents)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(order.Items))
	}
	if ordersStore.paid[order.ID] != "sq-payment-123" {
		t.Fatalf("order was not marked paid")
	}
	if order.ShippingAddress == nil || order.ShippingAddress.State != "MA" {
		t.Fatalf("address must be normalized onto the order")
	}

	if len(gateway.charges) != 1 || gateway.charges[0].AmountCents != 15040 {
		t.Fatalf("gateway must receive the total in minor units")
	}
	if len(carrier.submitted) != 1 {
		t.Fatalf("carrier handoff missing")
	}
	if store.Len() != 0 {
		t.Fatalf("cart must be cleared after a successful checkout")
	}
}

func TestExecutePaymentDeclineLeavesCartUntouched(t *testing.T) {
	mgr := cart.NewManager(nil, nil)
	store := seedCart(t, mgr, "sess-1")
	gateway := &stubGateway{err: pkgerrors.New(pkgerrors.CodePaymentDeclined, "card declined")}
	ordersStore := newStubOrderStore()

	svc := NewService(mgr, pricingCfg(), gateway, ordersStore, &stubCarrier{}, &stubLocker{}, nil, nil)

	_, err := svc.Execute(context.Background(), validInput())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodePaymentDeclined {
		t.Fatalf("expected payment declined, got %v", err)
	}

	if store.Len() != 2 || store.TotalItems() != 3 {
		t.Fatalf("failed payment must not modify the cart")
	}
	if len(ordersStore.paid) != 0 {
		t.Fatalf("declined order must not be marked paid")
	}
}

func TestExecuteEmptyCartIsRejected(t *testing.T) {
	mgr := cart.NewManager(nil, nil)

	svc := NewService(mgr, pricingCfg(), &stubGateway{}, newStubOrderStore(), &stubCarrier{}, nil, nil, nil)

	_, err := svc.Execute(context.Background(), validInput())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestExecuteValidatesInput(t *testing.T) {
	mgr := cart.NewManager(nil, nil)
	seedCart(t, mgr, "sess-1")
	svc := NewService(mgr, pricingCfg(), &stubGateway{}, newStubOrderStore(), &stubCarrier{}, nil, nil, nil)

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing session", func(in *Input) { in.SessionID = "" }},
		{"missing email", func(in *Input) { in.CustomerEmail = "" }},
		{"missing source", func(in *Input) { in.PaymentSourceID = "" }},
		{"bad method", func(in *Input) { in.ShippingMethod = "overnight" }},
		{"bad address", func(in *Input) { in.ShippingAddress.Line1 = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := svc.Execute(context.Background(), input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExecuteHeldLockConflicts(t *testing.T) {
	mgr := cart.NewManager(nil, nil)
	store := seedCart(t, mgr, "sess-1")
	locker := &stubLocker{}
	locker.SetNX(context.Background(), locker.CheckoutLockKey("sess-1"), "1", time.Minute)

	svc := NewService(mgr, pricingCfg(), &stubGateway{}, newStubOrderStore(), &stubCarrier{}, locker, nil, nil)

	_, err := svc.Execute(context.Background(), validInput())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while lock is held, got %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("lock conflict must not modify the cart")
	}
}

func TestExecuteReleasesLockAfterFailure(t *testing.T) {
	mgr := cart.NewManager(nil, nil)
	seedCart(t, mgr, "sess-1")
	locker := &stubLocker{}
	gateway := &stubGateway{err: pkgerrors.New(pkgerrors.CodePaymentDeclined, "card declined")}

	svc := NewService(mgr, pricingCfg(), gateway, newStubOrderStore(), &stubCarrier{}, locker, nil, nil)

	if _, err := svc.Execute(context.Background(), validInput()); err == nil {
		t.Fatalf("expected decline")
	}

	// Retry must be able to reacquire the lock.
	gateway.err = nil
	if _, err := svc.Execute(context.Background(), validInput()); err != nil {
		t.Fatalf("retry after decline failed: %v", err)
	}
}

func TestExecuteCarrierFailureDoesNotFailCheckout(t *testing.T) {
	mgr := cart.NewManager(nil, nil)
	store := seedCart(t, mgr, "sess-1")
	carrier := &stubCarrier{err: pkgerrors.New(pkgerrors.CodeDependency, "carrier down")}

	svc := NewService(mgr, pricingCfg(), &stubGateway{}, newStubOrderStore(), carrier, nil, nil, nil)

	if _, err := svc.Execute(context.Background(), validInput()); err != nil {
		t.Fatalf("carrier failure must not fail the sale: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("cart should still clear when only the carrier fails")
	}
}

func pricingBreakdown(subtotal string) (pricing.Breakdown, error) {
	return pricing.Compute(pricingCfg(), pricing.Params{
		Subtotal: decimal.RequireFromString(subtotal),
		Method:   enums.ShippingMethodStandard,
	})
}

func TestManifestValidate(t *testing.T) {
	items := []cart.LineItem{
		{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("24.99"), Quantity: 2},
		{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("42.99"), Quantity: 1},
	}

	good, err := pricingBreakdown("92.97")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	manifest := BuildManifest(items, good)
	if err := manifest.Validate(); err != nil {
		t.Fatalf("consistent manifest must validate: %v", err)
	}

	bad, err := pricingBreakdown("90.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	manifest = BuildManifest(items, bad)
	appErr := pkgerrors.As(manifest.Validate())
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("subtotal mismatch must fail validation")
	}

	empty := BuildManifest(nil, good)
	if err := empty.Validate(); err == nil {
		t.Fatalf("empty manifest must fail validation")
	}
}
