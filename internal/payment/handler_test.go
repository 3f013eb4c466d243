package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymhub/internal/auth"
	"gymhub/internal/ledger"
	"gymhub/internal/principal"
)

func paymentTestRouter(t *testing.T, mockLedger *MockLedger, store *ReservationStore, caller principal.Principal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(NewVerifier(mockLedger), NewExecutor(mockLedger), store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		auth.SetCallerPrincipal(c, caller)
		c.Next()
	})
	router.POST("/payments/verify", handler.VerifyPayment)
	router.POST("/payments/transfer", handler.MakeTransfer)
	router.POST("/payments/orders", handler.CreateOrder)
	router.POST("/payments/orders/verify", handler.VerifyOrder)
	router.GET("/address/:principal", handler.AddressFromPrincipal)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_VerifyPayment(t *testing.T) {
	mockLedger := new(MockLedger)
	mockLedger.On("QueryBlocks", mock.Anything, uint64(5), uint64(1)).
		Return([]ledger.Block{transferBlock(42, addr(testCaller), addr(testReceiver), 1000)}, nil)

	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, mockLedger, NewReservationStore(rdb, time.Minute), testCaller)

	w := postJSON(t, router, "/payments/verify", VerifyRequest{
		Receiver:   testReceiver.String(),
		AmountE8s:  1000,
		BlockIndex: 5,
		Memo:       42,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Verified bool `json:"verified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
}

func TestHandler_VerifyPayment_BadReceiver(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, new(MockLedger), NewReservationStore(rdb, time.Minute), testCaller)

	w := postJSON(t, router, "/payments/verify", VerifyRequest{
		Receiver:  "???",
		AmountE8s: 1000,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_VerifyPayment_LedgerDown(t *testing.T) {
	mockLedger := new(MockLedger)
	mockLedger.On("QueryBlocks", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("connection refused"))

	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, mockLedger, NewReservationStore(rdb, time.Minute), testCaller)

	w := postJSON(t, router, "/payments/verify", VerifyRequest{
		Receiver:   testReceiver.String(),
		AmountE8s:  1000,
		BlockIndex: 5,
		Memo:       42,
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_MakeTransfer(t *testing.T) {
	dest := principal.FromBytes([]byte{0x11, 0x22})

	mockLedger := new(MockLedger)
	mockLedger.On("TransferFee", mock.Anything).Return(uint64(10000), nil)
	mockLedger.On("Transfer", mock.Anything, mock.Anything).Return(uint64(3), nil)

	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, mockLedger, NewReservationStore(rdb, time.Minute), testCaller)

	w := postJSON(t, router, "/payments/transfer", TransferRequest{
		To:        dest.String(),
		AmountE8s: 5000,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "completed")
}

func TestHandler_MakeTransfer_InvalidDestination(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, new(MockLedger), NewReservationStore(rdb, time.Minute), testCaller)

	w := postJSON(t, router, "/payments/transfer", TransferRequest{
		To:        "not-a-principal!",
		AmountE8s: 5000,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_VerifyOrder_ExpiredOrder(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet(orderKey(999)).RedisNil()

	router := paymentTestRouter(t, new(MockLedger), NewReservationStore(rdb, time.Minute), testCaller)

	w := postJSON(t, router, "/payments/orders/verify", VerifyOrderRequest{
		OrderID:    999,
		Receiver:   testReceiver.String(),
		BlockIndex: 5,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_AddressFromPrincipal(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, new(MockLedger), NewReservationStore(rdb, time.Minute), testCaller)

	p := principal.FromBytes([]byte{0x42})
	req, _ := http.NewRequest(http.MethodGet, "/address/"+p.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), principal.AccountID(p, principal.DefaultSubaccount).Hex())
}

func TestHandler_AddressFromPrincipal_Malformed(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	router := paymentTestRouter(t, new(MockLedger), NewReservationStore(rdb, time.Minute), testCaller)

	req, _ := http.NewRequest(http.MethodGet, "/address/zzz!!", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
