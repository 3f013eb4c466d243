package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/metrics"
	"gymhub/internal/principal"
)

type Handler struct {
	verifier *Verifier
	executor *Executor
	orders   *ReservationStore
}

func NewHandler(verifier *Verifier, executor *Executor, orders *ReservationStore) *Handler {
	return &Handler{
		verifier: verifier,
		executor: executor,
		orders:   orders,
	}
}

type VerifyRequest struct {
	Receiver   string `json:"receiver" binding:"required"`
	AmountE8s  uint64 `json:"amount_e8s" binding:"required"`
	BlockIndex uint64 `json:"block_index"`
	Memo       uint64 `json:"memo"`
}

type TransferRequest struct {
	To        string `json:"to" binding:"required"`
	AmountE8s uint64 `json:"amount_e8s" binding:"required"`
}

type CreateOrderRequest struct {
	GymID     string `json:"gym_id" binding:"required"`
	AmountE8s uint64 `json:"amount_e8s" binding:"required"`
}

type VerifyOrderRequest struct {
	OrderID    uint64 `json:"order_id" binding:"required"`
	Receiver   string `json:"receiver" binding:"required"`
	BlockIndex uint64 `json:"block_index"`
}

// @Summary      Verify a ledger payment
// @Description  Checks whether the block at block_index records a transfer from the caller to receiver with the given amount and memo
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.VerifyRequest true "Verification parameters"
// @Success      200 {object} api.VerificationResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments/verify [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	caller, ok := auth.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "caller not authenticated"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	receiver, err := principal.FromText(req.Receiver)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid receiver principal"})
		return
	}

	verified, err := h.verifier.Verify(c.Request.Context(), caller, receiver, req.AmountE8s, req.BlockIndex, req.Memo)
	if err != nil {
		metrics.RecordVerification("error")
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "ledger unavailable"})
		return
	}

	if verified {
		metrics.RecordVerification("verified")
	} else {
		metrics.RecordVerification("rejected")
	}
	c.JSON(http.StatusOK, api.VerificationResponse{Verified: verified})
}

// @Summary      Send an outbound transfer
// @Description  Pays amount_e8s to the destination principal; the result message is completed or failed:<reason>
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.TransferRequest true "Transfer parameters"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments/transfer [post]
func (h *Handler) MakeTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.executor.Pay(c.Request.Context(), req.To, req.AmountE8s)
	if err != nil {
		if errors.Is(err, ErrInvalidDestination) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid destination principal"})
			return
		}
		metrics.RecordTransfer("error")
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "ledger unavailable"})
		return
	}

	if result == StatusCompleted {
		metrics.RecordTransfer("completed")
	} else {
		metrics.RecordTransfer("failed")
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: result})
}

// @Summary      Create a payment order
// @Description  Reserves a pending payment; the returned id is the memo to attach to the ledger transfer. The reservation expires after the configured window.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.CreateOrderRequest true "Order parameters"
// @Success      201 {object} payment.Order
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /payments/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	caller, ok := auth.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "caller not authenticated"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req.GymID, caller, req.AmountE8s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create payment order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// @Summary      Verify and consume a payment order
// @Description  Verifies the transfer referenced by an open order (order id is the expected memo) and consumes the reservation on success
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.VerifyOrderRequest true "Order verification parameters"
// @Success      200 {object} api.VerificationResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments/orders/verify [post]
func (h *Handler) VerifyOrder(c *gin.Context) {
	caller, ok := auth.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "caller not authenticated"})
		return
	}

	var req VerifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	receiver, err := principal.FromText(req.Receiver)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid receiver principal"})
		return
	}

	order, err := h.orders.Get(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "payment order expired or not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load payment order"})
		return
	}

	verified, err := h.verifier.Verify(c.Request.Context(), caller, receiver, order.AmountE8s, req.BlockIndex, order.ID)
	if err != nil {
		metrics.RecordVerification("error")
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "ledger unavailable"})
		return
	}

	if verified {
		metrics.RecordVerification("verified")
		// Best effort: the expiry timer may have fired in between, which is fine.
		_ = h.orders.Consume(c.Request.Context(), order.ID)
	} else {
		metrics.RecordVerification("rejected")
	}
	c.JSON(http.StatusOK, api.VerificationResponse{Verified: verified})
}

// @Summary      Derive the ledger address of a principal
// @Description  Pure derivation; returns the hex-encoded account identifier
// @Tags         payments
// @Produce      json
// @Param        principal path string true "Principal text"
// @Success      200 {object} api.AddressResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /address/{principal} [get]
func (h *Handler) AddressFromPrincipal(c *gin.Context) {
	p, err := principal.FromText(c.Param("principal"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid principal"})
		return
	}

	addr := principal.AccountID(p, principal.DefaultSubaccount)
	c.JSON(http.StatusOK, api.AddressResponse{Address: addr.Hex()})
}
