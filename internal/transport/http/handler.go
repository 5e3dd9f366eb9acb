package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"paycode/internal/model"
	"paycode/internal/service"
)

type Handler struct {
	svc service.PaymentService
}

func NewHandler(svc service.PaymentService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /accounts", h.CreateAccount)
	mux.HandleFunc("GET /accounts/{id}/balance", h.Balance)
	mux.HandleFunc("GET /accounts/{id}/transactions", h.History)
	mux.HandleFunc("POST /accounts/{id}/recharge", h.Recharge)

	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("GET /orders/{id}/status", h.OrderStatus)
	mux.HandleFunc("POST /orders/{id}/cancel", h.CancelOrder)

	mux.HandleFunc("GET /payments/query/{code}", h.QueryCode)
	mux.HandleFunc("POST /payments/process", h.ProcessPayment)
	mux.HandleFunc("GET /payments/{id}", h.PaymentByID)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind model.AccountKind `json:"kind"`
		Name string            `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	acc, err := h.svc.CreateAccount(r.Context(), req.Kind, req.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, acc)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.Balance(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.svc.History(r.Context(), r.PathValue("id"), offset, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if records == nil {
		records = []model.TransactionRecord{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"transactions": records})
}

func (h *Handler) Recharge(w http.ResponseWriter, r *http.Request) {
	var req model.RechargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.PayerID = r.PathValue("id")
	res, err := h.svc.Recharge(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	ord, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]any{
		"order_id":     ord.ID,
		"payment_code": ord.PaymentCode,
		"amount":       ord.Amount,
		"expires_at":   ord.ExpiresAt,
	})
}

func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	ord, err := h.svc.OrderStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	// payment_id is null until the order settles.
	var paymentID any
	if ord.PaymentID != "" {
		paymentID = ord.PaymentID
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"order_id":   ord.ID,
		"status":     ord.Status,
		"amount":     ord.Amount,
		"payment_id": paymentID,
		"created_at": ord.CreatedAt,
		"expires_at": ord.ExpiresAt,
	})
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelOrder(r.Context(), r.PathValue("id")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) QueryCode(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.LookupByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req model.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := h.svc.Settle(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) PaymentByID(w http.ResponseWriter, r *http.Request) {
	payment, err := h.svc.PaymentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, payment)
}

// respondServiceError translates the business error taxonomy to HTTP status
// codes; the wrapped message is passed through as the reason.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientFunds), errors.Is(err, model.ErrBankInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrOrderNotPending), errors.Is(err, model.ErrPaymentExpired), errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, model.ErrPersistence):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	h.respondError(w, status, err.Error())
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
