package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coinshop/cmd/web/validator"
	"coinshop/internal/checkout"
	"coinshop/internal/payment"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
	"coinshop/kit/db"
)

const checkoutBody = `{"packageId":3,"provider":"lygospay","customerName":"alice","customerEmail":"a@x.com"}`

func TestCheckout_Start(t *testing.T) {
	t.Parallel()

	wantReq := checkout.Request{
		PackageID:     3,
		Provider:      provider.TypeLygosPay,
		CustomerName:  "alice",
		CustomerEmail: "a@x.com",
	}
	redirect := checkout.Result{
		OrderID:  "TKT-AB12C",
		Provider: provider.TypeLygosPay,
		Purchase: purchase.Purchase{ID: "TKT-AB12C", Status: purchase.StatusPending},
		Response: provider.Response{
			Success:    true,
			PaymentURL: "https://pay.example.com/xyz",
			Navigation: &provider.Navigation{Kind: provider.NavigationRedirect, Method: http.MethodGet, URL: "https://pay.example.com/xyz"},
		},
	}
	formPost := checkout.Result{
		OrderID:  "TKT-FP001",
		Provider: provider.TypeSoleasPay,
		Purchase: purchase.Purchase{ID: "TKT-FP001", Status: purchase.StatusPending},
		Response: provider.Response{
			Success: true,
			Navigation: &provider.Navigation{
				Kind:   provider.NavigationFormPost,
				Method: http.MethodPost,
				URL:    "https://checkout.example.com/",
				Fields: url.Values{"orderId": {"TKT-FP001"}, "customer[email]": {"a@x.com"}},
			},
		},
	}

	var tests = []struct {
		name           string
		body           string
		contentType    string
		accept         string
		service        func() *CheckoutMock
		expectedStatus int
		assert         func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "json caller gets navigation",
			body: checkoutBody,
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				m.On("Start", mock.Anything, wantReq).Return(redirect, nil)
				return m
			},
			expectedStatus: http.StatusCreated,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got checkoutResp
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Equal(t, "TKT-AB12C", got.OrderID)
				require.Equal(t, purchase.StatusPending, got.Status)
				require.Equal(t, "https://pay.example.com/xyz", got.PaymentURL)
				require.Equal(t, provider.NavigationRedirect, got.Navigation.Kind)
			},
		},
		{
			name:   "browser is redirected",
			body:   checkoutBody,
			accept: "text/html,application/xhtml+xml",
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				m.On("Start", mock.Anything, wantReq).Return(redirect, nil)
				return m
			},
			expectedStatus: http.StatusSeeOther,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.Equal(t, "https://pay.example.com/xyz", rec.Header().Get("Location"))
			},
		},
		{
			name:        "browser form post from html form",
			body:        "packageId=3&provider=soleaspay&customerName=alice&customerEmail=a%40x.com",
			contentType: "application/x-www-form-urlencoded",
			accept:      "text/html",
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				req := wantReq
				req.Provider = provider.TypeSoleasPay
				m.On("Start", mock.Anything, req).Return(formPost, nil)
				return m
			},
			expectedStatus: http.StatusOK,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := rec.Body.String()
				require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
				require.Contains(t, body, `action="https://checkout.example.com/"`)
				require.Contains(t, body, `name="orderId" value="TKT-FP001"`)
				require.Contains(t, body, `name="customer[email]" value="a@x.com"`)
			},
		},
		{
			name:           "unknown field rejected",
			body:           `{"packageId":3,"customerEmail":"a@x.com","password":"secret"}`,
			service:        func() *CheckoutMock { return new(CheckoutMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			body:           `{"packageId":3,"customerEmail":"nope"}`,
			service:        func() *CheckoutMock { return new(CheckoutMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "custom coins above the cap",
			body:           `{"packageId":0,"customCoins":1641169401575582885,"customerEmail":"a@x.com"}`,
			service:        func() *CheckoutMock { return new(CheckoutMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative custom coins",
			body:           `{"packageId":0,"customCoins":-5,"customerEmail":"a@x.com"}`,
			service:        func() *CheckoutMock { return new(CheckoutMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown provider",
			body:           `{"packageId":3,"provider":"paypal","customerEmail":"a@x.com"}`,
			service:        func() *CheckoutMock { return new(CheckoutMock) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "gateway failure surfaces its message",
			body: checkoutBody,
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				perr := &payment.Error{Provider: provider.TypeLygosPay, Message: "Invalid API key", Cause: provider.ErrGateway}
				m.On("Start", mock.Anything, wantReq).Return(checkout.Result{OrderID: "TKT-AB12C"}, perr)
				return m
			},
			expectedStatus: http.StatusBadGateway,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.JSONEq(t, `{"error":"Invalid API key"}`, rec.Body.String())
			},
		},
		{
			name: "no provider enabled",
			body: `{"packageId":3,"customerEmail":"a@x.com"}`,
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				m.On("Start", mock.Anything, checkout.Request{PackageID: 3, CustomerEmail: "a@x.com"}).
					Return(checkout.Result{}, provider.ErrNoProviderEnabled)
				return m
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "custom package below minimum",
			body: `{"packageId":0,"customCoins":10,"customerEmail":"a@x.com"}`,
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				m.On("Start", mock.Anything, checkout.Request{CustomCoins: 10, CustomerEmail: "a@x.com"}).
					Return(checkout.Result{}, errors.Join(db.ErrInvalid, errors.New("at least 70 coins")))
				return m
			},
			expectedStatus: http.StatusBadRequest,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.JSONEq(t, `{"error":"at least 70 coins"}`, rec.Body.String())
			},
		},
		{
			name: "store failure is hidden",
			body: checkoutBody,
			service: func() *CheckoutMock {
				m := new(CheckoutMock)
				m.On("Start", mock.Anything, wantReq).Return(checkout.Result{}, errors.Join(db.ErrInternal, errors.New("bolt: disk full")))
				return m
			},
			expectedStatus: http.StatusInternalServerError,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := tt.service()
			h := NewCheckout(validator.NewJSON(), svc, new(PaymentStatusMock), new(StoreMock))

			req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(tt.body))
			ct := tt.contentType
			if ct == "" {
				ct = "application/json"
			}
			req.Header.Set("Content-Type", ct)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			h.Start(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.assert != nil {
				tt.assert(t, rec)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCheckout_Status(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name           string
		target         string
		setup          func(ps *PaymentStatusMock, st *StoreMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "provider from query",
			target: "/payments/TKT-AB12C/status?provider=lygospay",
			setup: func(ps *PaymentStatusMock, st *StoreMock) {
				ps.On("CheckStatus", mock.Anything, "TKT-AB12C", provider.TypeLygosPay).
					Return(provider.StatusResponse{OrderID: "TKT-AB12C", Status: provider.StatusSuccess}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"order_id":"TKT-AB12C","status":"success"}`,
		},
		{
			name:   "provider recorded on the purchase",
			target: "/payments/TKT-AB12C/status",
			setup: func(ps *PaymentStatusMock, st *StoreMock) {
				st.On("Get", mock.Anything, "TKT-AB12C").Return(purchase.Purchase{ID: "TKT-AB12C", Provider: "soleaspay"}, nil)
				ps.On("CheckStatus", mock.Anything, "TKT-AB12C", provider.TypeSoleasPay).
					Return(provider.StatusResponse{OrderID: "TKT-AB12C", Status: provider.StatusPending, Error: "Status check not available for SoleasPay"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"order_id":"TKT-AB12C","status":"pending","error":"Status check not available for SoleasPay"}`,
		},
		{
			name:   "unknown purchase falls back to default provider",
			target: "/payments/TKT-ZZZZZ/status",
			setup: func(ps *PaymentStatusMock, st *StoreMock) {
				st.On("Get", mock.Anything, "TKT-ZZZZZ").Return(purchase.Purchase{}, db.ErrNotFound)
				ps.On("CheckStatus", mock.Anything, "TKT-ZZZZZ", provider.Type("")).
					Return(provider.StatusResponse{OrderID: "TKT-ZZZZZ", Status: provider.StatusFailed, Error: "HTTP error! status: 404"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"order_id":"TKT-ZZZZZ","status":"failed","error":"HTTP error! status: 404"}`,
		},
		{
			name:   "disabled provider",
			target: "/payments/TKT-AB12C/status?provider=soleaspay",
			setup: func(ps *PaymentStatusMock, st *StoreMock) {
				ps.On("CheckStatus", mock.Anything, "TKT-AB12C", provider.TypeSoleasPay).
					Return(provider.StatusResponse{}, &provider.Error{Kind: provider.ErrProviderDisabled, Message: "Payment provider soleaspay is not enabled"})
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"Payment provider soleaspay is not enabled"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ps, st := new(PaymentStatusMock), new(StoreMock)
			tt.setup(ps, st)
			h := NewCheckout(validator.NewJSON(), new(CheckoutMock), ps, st)

			r := chi.NewRouter()
			r.Get("/payments/{orderId}/status", h.Status)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, tt.expectedStatus, rec.Code)
			require.JSONEq(t, tt.expectedBody, rec.Body.String())
			ps.AssertExpectations(t)
			st.AssertExpectations(t)
		})
	}
}

func TestCheckout_Landing(t *testing.T) {
	t.Parallel()

	settled := purchase.Summary{
		Balance: 770,
		PurchaseHistory: []purchase.Purchase{
			{ID: "TKT-AB12C", PackageID: 3, Amount: 770, Price: 7900, Status: purchase.StatusSuccess},
		},
	}

	var tests = []struct {
		name           string
		target         string
		accept         string
		setup          func(cm *CheckoutMock, st *StoreMock)
		expectedStatus int
		assert         func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "success",
			target: "/payment/success?orderId=TKT-AB12C",
			setup: func(cm *CheckoutMock, st *StoreMock) {
				cm.On("HandleReturn", mock.Anything, "TKT-AB12C", checkout.OutcomeSuccess, "").Return(settled, nil)
			},
			expectedStatus: http.StatusOK,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got landingResp
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Equal(t, int64(770), got.Balance)
				require.NotNil(t, got.Purchase)
				require.Equal(t, purchase.StatusSuccess, got.Purchase.Status)
			},
		},
		{
			name:   "cancel forwards the gateway error",
			target: "/payment/cancel?orderId=TKT-AB12C&error=Card+declined",
			setup: func(cm *CheckoutMock, st *StoreMock) {
				cm.On("HandleReturn", mock.Anything, "TKT-AB12C", checkout.OutcomeFailure, "Card declined").
					Return(purchase.Summary{PurchaseHistory: []purchase.Purchase{
						{ID: "TKT-AB12C", Status: purchase.StatusFailed, ErrorMessage: "Card declined"},
					}}, nil)
			},
			expectedStatus: http.StatusOK,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got landingResp
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Equal(t, "Card declined", got.Purchase.ErrorMessage)
				require.Equal(t, int64(0), got.Balance)
			},
		},
		{
			name:   "unknown order shows summary only",
			target: "/payment/success?orderId=TKT-NOPE1",
			setup: func(cm *CheckoutMock, st *StoreMock) {
				cm.On("HandleReturn", mock.Anything, "TKT-NOPE1", checkout.OutcomeSuccess, "").Return(settled, nil)
			},
			expectedStatus: http.StatusOK,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got landingResp
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Nil(t, got.Purchase)
				require.Len(t, got.PurchaseHistory, 1)
			},
		},
		{
			name:   "settled purchase is shown unchanged",
			target: "/payment/cancel?orderId=TKT-AB12C",
			accept: "text/html",
			setup: func(cm *CheckoutMock, st *StoreMock) {
				cm.On("HandleReturn", mock.Anything, "TKT-AB12C", checkout.OutcomeFailure, "").Return(purchase.Summary{}, purchase.ErrTerminalState)
				st.On("Summary", mock.Anything).Return(settled, nil)
			},
			expectedStatus: http.StatusOK,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.Contains(t, rec.Body.String(), "Order TKT-AB12C: success")
				require.Contains(t, rec.Body.String(), "Balance: 770 coins")
			},
		},
		{
			name:   "missing order id",
			target: "/payment/success",
			setup: func(cm *CheckoutMock, st *StoreMock) {
				cm.On("HandleReturn", mock.Anything, "", checkout.OutcomeSuccess, "").
					Return(purchase.Summary{}, errors.Join(db.ErrInvalid, errors.New("orderId is required")))
			},
			expectedStatus: http.StatusBadRequest,
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.JSONEq(t, `{"error":"orderId is required"}`, rec.Body.String())
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm, st := new(CheckoutMock), new(StoreMock)
			tt.setup(cm, st)
			h := NewCheckout(validator.NewJSON(), cm, new(PaymentStatusMock), st)

			r := chi.NewRouter()
			r.Get("/payment/success", h.Success)
			r.Get("/payment/cancel", h.Cancel)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			tt.assert(t, rec)
			cm.AssertExpectations(t)
			st.AssertExpectations(t)
		})
	}
}
