package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roomsuite/pos-backend/internal/checkout"
)

// TransactionService is the slice of the checkout service the transport
// layer needs.
type TransactionService interface {
	Create(ctx context.Context, req checkout.CreateRequest) (*checkout.Transaction, error)
	List(ctx context.Context, tenantID string) ([]checkout.Transaction, error)
}

type TransactionsHandler struct {
	Svc      TransactionService
	Validate *validator.Validate
	Log      *zap.Logger
}

type createTransactionRequest struct {
	TenantID      string      `json:"tenant_id" validate:"required"`
	Items         []itemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string      `json:"payment_method" validate:"required"`
	VoucherID     string      `json:"voucher_id"`
	MaleCount     int         `json:"male_count" validate:"min=0"`
	FemaleCount   int         `json:"female_count" validate:"min=0"`
	Description   string      `json:"description"`
}

type itemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type itemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type transactionResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Code          string          `json:"code"`
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	VoucherID     *string         `json:"voucher_id,omitempty"`
	MaleCount     int             `json:"male_count"`
	FemaleCount   int             `json:"female_count"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []itemResponse  `json:"items"`
}

func (h *TransactionsHandler) Register(r *chi.Mux) {
	r.Post("/api/transactions", h.createTransaction)
	r.Get("/api/transactions", h.listTransactions)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (h *TransactionsHandler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items := make([]checkout.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = checkout.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	tx, err := h.Svc.Create(ctx, checkout.CreateRequest{
		TenantID:      req.TenantID,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		VoucherID:     req.VoucherID,
		MaleCount:     req.MaleCount,
		FemaleCount:   req.FemaleCount,
		Description:   req.Description,
		TraceID:       middleware.GetReqID(r.Context()),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (h *TransactionsHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txs, err := h.Svc.List(ctx, tenantID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	out := make([]transactionResponse, len(txs))
	for i := range txs {
		out[i] = toTransactionResponse(&txs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// renderError maps domain errors onto the HTTP taxonomy. Anything not
// classified is logged with request context and becomes a 500.
func (h *TransactionsHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *checkout.ProductNotFoundError
		badQty   *checkout.InvalidQuantityError
		noStock  *checkout.InsufficientStockError
	)
	switch {
	case errors.Is(err, checkout.ErrMissingTenant),
		errors.Is(err, checkout.ErrEmptyItems),
		errors.Is(err, checkout.ErrMissingPayment):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &badQty), errors.As(err, &noStock):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound), errors.Is(err, checkout.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrDuplicateCode):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("transaction request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toTransactionResponse(tx *checkout.Transaction) transactionResponse {
	items := make([]itemResponse, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = itemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitle,
			ProductPrice: it.ProductPrice,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal,
		}
	}
	return transactionResponse{
		ID:            tx.ID,
		TenantID:      tx.TenantID,
		Code:          tx.Code,
		PaymentMethod: tx.PaymentMethod,
		Subtotal:      tx.Subtotal,
		Discount:      tx.Discount,
		Total:         tx.Total,
		VoucherID:     tx.VoucherID,
		MaleCount:     tx.MaleCount,
		FemaleCount:   tx.FemaleCount,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
		Items:         items,
	}
}
