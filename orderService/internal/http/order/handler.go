package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/order-settlement/shared/errors/repository"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
	zapLogger "github.com/nastyazhadan/order-settlement/shared/logger/zap"
)

const maxBodyBytes = 1 << 20

type Order interface {
	CreateInstantOrder(ctx context.Context, request models.InstantOrderRequest) (models.CreateResult, error)
	CreateNormalOrder(ctx context.Context, request models.NormalOrderRequest) (models.CreateResult, error)
	CreateIcebergOrder(ctx context.Context, request models.IcebergOrderRequest) (models.CreateResult, error)
	CreateCoverOrder(ctx context.Context, request models.CoverOrderRequest) (models.CreateResult, error)

	ExecuteOrder(ctx context.Context, orderID uuid.UUID, request models.ExecuteRequest) (models.ExecutionResult, error)
	ExecuteNextIcebergLeg(ctx context.Context, orderID uuid.UUID, request models.ExecuteRequest) (models.LegExecution, error)
	ExecuteStopLoss(ctx context.Context, orderID uuid.UUID, request models.ExecuteRequest) (models.StopLossExecution, error)
	RejectOrder(ctx context.Context, orderID uuid.UUID, request models.RejectRequest) (models.TerminationResult, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, request models.CancelRequest) (models.TerminationResult, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (models.OrderView, error)
	ListOrders(ctx context.Context, userID uuid.UUID, status *models.Status) ([]models.Order, error)
	GetOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error)
	GetOrderCharges(ctx context.Context, orderID uuid.UUID) (models.ChargesReport, error)
}

type Funds interface {
	GetFunds(ctx context.Context, userID uuid.UUID) (models.UserFunds, error)
	DepositFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.UserFunds, error)
	WithdrawFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.UserFunds, error)
}

type Service interface {
	Order
	Funds
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders/instant", h.createInstant)
	mux.HandleFunc("POST /orders/normal", h.createNormal)
	mux.HandleFunc("POST /orders/iceberg", h.createIceberg)
	mux.HandleFunc("POST /orders/cover", h.createCover)

	mux.HandleFunc("POST /orders/{id}/execute", h.execute)
	mux.HandleFunc("POST /iceberg/{id}/execute-next-leg", h.executeNextLeg)
	mux.HandleFunc("POST /cover/{id}/execute-stop-loss", h.executeStopLoss)
	mux.HandleFunc("POST /orders/{id}/reject", h.reject)
	mux.HandleFunc("POST /orders/{id}/cancel", h.cancel)

	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("GET /orders/{id}/history", h.history)
	mux.HandleFunc("GET /orders/{id}/charges", h.charges)
	mux.HandleFunc("GET /users/{userId}/orders", h.listOrders)

	mux.HandleFunc("GET /users/{userId}/funds", h.getFunds)
	mux.HandleFunc("POST /users/{userId}/funds/deposit", h.deposit)
	mux.HandleFunc("POST /users/{userId}/funds/withdraw", h.withdraw)
}

func (h *Handler) createInstant(w http.ResponseWriter, r *http.Request) {
	var body instantBody
	if !decode(w, r, &body) {
		return
	}

	placement, err := body.toDomain()
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.svc.CreateInstantOrder(r.Context(), models.InstantOrderRequest{
		PlacementRequest: placement,
		ProductType:      models.ProductType(body.ProductType),
		OrderType:        models.OrderType(body.OrderType),
	})
	respondCreated(w, r, result, err)
}

func (h *Handler) createNormal(w http.ResponseWriter, r *http.Request) {
	var body normalBody
	if !decode(w, r, &body) {
		return
	}

	placement, err := body.toDomain()
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.svc.CreateNormalOrder(r.Context(), models.NormalOrderRequest{
		PlacementRequest:  placement,
		ProductType:       models.ProductType(body.ProductType),
		OrderType:         models.OrderType(body.OrderType),
		TriggerPrice:      body.TriggerPrice,
		Validity:          models.Validity(body.Validity),
		ValidityMinutes:   body.ValidityMinutes,
		DisclosedQuantity: body.DisclosedQuantity,
	})
	respondCreated(w, r, result, err)
}

func (h *Handler) createIceberg(w http.ResponseWriter, r *http.Request) {
	var body icebergBody
	if !decode(w, r, &body) {
		return
	}

	placement, err := body.toDomain()
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.svc.CreateIcebergOrder(r.Context(), models.IcebergOrderRequest{
		PlacementRequest:  placement,
		NumberOfLegs:      body.NumberOfLegs,
		ProductType:       models.ProductType(body.ProductType),
		OrderType:         models.OrderType(body.OrderType),
		TriggerPrice:      body.TriggerPrice,
		Validity:          models.Validity(body.Validity),
		ValidityMinutes:   body.ValidityMinutes,
		DisclosedQuantity: body.DisclosedQuantity,
	})
	respondCreated(w, r, result, err)
}

func (h *Handler) createCover(w http.ResponseWriter, r *http.Request) {
	var body coverBody
	if !decode(w, r, &body) {
		return
	}

	placement, err := body.toDomain()
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.svc.CreateCoverOrder(r.Context(), models.CoverOrderRequest{
		PlacementRequest: placement,
		OrderType:        models.OrderType(body.OrderType),
		StopLossPrice:    body.StopLossPrice,
	})
	respondCreated(w, r, result, err)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body executeBody
	if !decode(w, r, &body) {
		return
	}

	result, err := h.svc.ExecuteOrder(r.Context(), orderID, body.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, executionResponse{
		viewResponse: toViewResponse(result.View),
		Charges:      toChargesOutcome(result.Charges),
	})
}

func (h *Handler) executeNextLeg(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body executeBody
	if !decode(w, r, &body) {
		return
	}

	result, err := h.svc.ExecuteNextIcebergLeg(r.Context(), orderID, body.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toLegExecutionResponse(result))
}

func (h *Handler) executeStopLoss(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body executeBody
	if !decode(w, r, &body) {
		return
	}

	result, err := h.svc.ExecuteStopLoss(r.Context(), orderID, body.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stopLossResponse{
		Order:   toOrderResponse(result.Order),
		Cover:   toCoverResponse(result.Cover),
		Charges: toChargesOutcome(result.Charges),
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body rejectBody
	if !decode(w, r, &body) {
		return
	}

	result, err := h.svc.RejectOrder(r.Context(), orderID, models.RejectRequest{
		Reason: body.RejectionReason,
		Actor:  body.Actor,
	})
	respondTermination(w, r, result, err)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body cancelBody
	if !decodeOptional(w, r, &body) {
		return
	}

	result, err := h.svc.CancelOrder(r.Context(), orderID, models.CancelRequest{
		Remarks: body.Remarks,
		Actor:   body.Actor,
	})
	respondTermination(w, r, result, err)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toViewResponse(view))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.svc.GetOrderHistory(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response := make([]historyResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, historyResponse{
			ID:             entry.ID,
			PreviousStatus: entry.PreviousStatus,
			NewStatus:      entry.NewStatus,
			Remark:         entry.Remark,
			Actor:          entry.Actor,
			CreatedAt:      entry.CreatedAt,
		})
	}

	respondJSON(w, r, http.StatusOK, response)
}

func (h *Handler) charges(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.svc.GetOrderCharges(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toChargesReport(report))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	var status *models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := models.Status(raw)
		if !parsed.Valid() {
			respondError(w, r, serviceErrors.NewValidationError("status", "unknown order status"))
			return
		}
		status = &parsed
	}

	orders, err := h.svc.ListOrders(r.Context(), userID, status)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}

	respondJSON(w, r, http.StatusOK, response)
}

func (h *Handler) getFunds(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	funds, err := h.svc.GetFunds(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toFundsResponse(funds))
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.adjustFunds(w, r, h.svc.DepositFunds)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.adjustFunds(w, r, h.svc.WithdrawFunds)
}

func (h *Handler) adjustFunds(
	w http.ResponseWriter,
	r *http.Request,
	adjust func(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.UserFunds, error),
) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	var body amountBody
	if !decode(w, r, &body) {
		return
	}

	funds, err := adjust(r.Context(), userID, body.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toFundsResponse(funds))
}

func respondCreated(w http.ResponseWriter, r *http.Request, result models.CreateResult, err error) {
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, createResponse{
		viewResponse:   toViewResponse(result.View),
		RequiredMargin: result.RequiredMargin,
		Funds:          toFundsResponse(result.Funds),
	})
}

func respondTermination(w http.ResponseWriter, r *http.Request, result models.TerminationResult, err error) {
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, terminationResponse{
		viewResponse:    toViewResponse(result.View),
		ReleasedMargin:  result.ReleasedMargin,
		RefundedCharges: result.RefundedCharges,
	})
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	return decodeBody(w, r, target, false)
}

// decodeOptional accepts an empty body and leaves target zeroed.
func decodeOptional(w http.ResponseWriter, r *http.Request, target any) bool {
	return decodeBody(w, r, target, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any, optional bool) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(target)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}

	respondError(w, r, serviceErrors.NewValidationError("body", "malformed JSON: "+err.Error()))
	return false
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		respondError(w, r, serviceErrors.NewValidationError(name, "must be a UUID"))
		return uuid.Nil, false
	}

	return id, true
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zapLogger.Error(r.Context(), "failed to encode JSON response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *serviceErrors.ValidationError
		shortfall  *serviceErrors.InsufficientFundsError
	)

	switch {
	case errors.As(err, &validation):
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Error: validation.Error(), Field: validation.Field})
	case errors.As(err, &shortfall):
		respondJSON(w, r, http.StatusBadRequest, errorResponse{
			Error:     shortfall.Error(),
			Required:  &shortfall.Required,
			Available: &shortfall.Available,
		})
	case errors.Is(err, serviceErrors.ErrValidation), errors.Is(err, serviceErrors.ErrInsufficientFunds):
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, serviceErrors.ErrOrderNotFound), errors.Is(err, serviceErrors.ErrNotFound):
		respondJSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, serviceErrors.ErrInvalidState), errors.Is(err, serviceErrors.ErrNoMoreLegs):
		respondJSON(w, r, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, repositoryErrors.ErrSerialization), errors.Is(err, serviceErrors.ErrOrderAlreadyExists):
		respondJSON(w, r, http.StatusConflict, errorResponse{Error: "concurrent update, retry the request"})
	case errors.Is(err, serviceErrors.ErrRateLimitExceeded):
		respondJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: err.Error()})
	case errors.Is(err, serviceErrors.ErrPriceUnavailable):
		respondJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: "reference price unavailable"})
	default:
		zapLogger.Error(r.Context(), "order request failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
