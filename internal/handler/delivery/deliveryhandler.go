package deliveryhandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/renanjardim/back-end-rota-certa/internal/domain"
	"github.com/renanjardim/back-end-rota-certa/pkg/dto"
	"github.com/renanjardim/back-end-rota-certa/pkg/logger"
)

type DeliveryService interface {
	Create(requesterID int64, amount float64, origin, destination, description string) (int64, error)
	Deliveries(userID int64, filter domain.DeliveryFilter) ([]domain.Delivery, error)
	Accept(deliveryID, courierID int64) error
	Complete(deliveryID, courierID int64) error
	Fail(deliveryID, courierID int64) error
	CompleteReturn(deliveryID, requesterID int64) error
}

type DeliveryHandler struct {
	srv DeliveryService
}

func New(srv DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		srv: srv,
	}
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	var req dto.CreateDelivery
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a create delivery request")
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	defer closeBody(r.Body)

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid delivery fields", logger.Error(err))
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	deliveryID, err := h.srv.Create(userID, req.Amount, req.Origin, req.Destination, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			logger.Log.Warn("insufficient funds", logger.Int64("user_id", userID), logger.Float64("amount", req.Amount))
			writeMessage(w, http.StatusPaymentRequired, "Saldo insuficiente para criar a entrega.")
			return
		}

		logger.Log.Error("error while creating delivery", logger.Int64("user_id", userID), logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	writeJSON(w, http.StatusCreated, dto.DeliveryCreated{
		Message:    "Entrega criada com sucesso!",
		DeliveryID: deliveryID,
	})
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	filter := domain.DeliveryFilter{
		Status:        r.URL.Query().Get("status"),
		AvailableOnly: r.URL.Query().Get("disponiveis") == "true",
	}

	deliveries, err := h.srv.Deliveries(userID, filter)
	if err != nil {
		logger.Log.Error("error while fetching deliveries", logger.Int64("user_id", userID), logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	if len(deliveries) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	dtos := make([]dto.Delivery, len(deliveries))
	for i, d := range deliveries {
		dtos[i] = dto.Delivery{
			ID:          d.ID,
			RequesterID: d.RequesterID,
			CourierID:   d.CourierID,
			Status:      d.Status,
			Amount:      d.Amount,
			Origin:      d.Origin,
			Destination: d.Destination,
			Description: d.Description,
			CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.srv.Accept, "Entrega aceita com sucesso!", domain.DeliveryAccepted)
}

func (h *DeliveryHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.srv.Complete, "Entrega concluída com sucesso!", domain.DeliveryCompleted)
}

func (h *DeliveryHandler) Fail(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.srv.Fail, "Falha na entrega registrada.", domain.DeliveryFailed)
}

func (h *DeliveryHandler) CompleteReturn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.srv.CompleteReturn, "Devolução concluída com sucesso!", domain.DeliveryReturnCompleted)
}

func (h *DeliveryHandler) transition(w http.ResponseWriter, r *http.Request, op func(deliveryID, actorID int64) error, message, status string) {
	actorID, ok := userID(w, r)
	if !ok {
		return
	}

	deliveryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Log.Warn("invalid delivery ID in path", logger.Error(err))
		writeMessage(w, http.StatusBadRequest, "ID de entrega inválido.")
		return
	}

	if err := op(deliveryID, actorID); err != nil {
		switch {
		case errors.Is(err, domain.ErrDeliveryNotFound):
			writeMessage(w, http.StatusNotFound, "Entrega não encontrada.")
		case errors.Is(err, domain.ErrOwnDelivery):
			writeMessage(w, http.StatusConflict, "Não é possível aceitar a própria entrega.")
		case errors.Is(err, domain.ErrNotParticipant):
			writeMessage(w, http.StatusForbidden, "Você não participa desta entrega.")
		case errors.Is(err, domain.ErrDeliveryConflict):
			writeMessage(w, http.StatusConflict, "A entrega não está no estado esperado para esta operação.")
		default:
			logger.Log.Error("error while updating delivery", logger.Int64("delivery_id", deliveryID), logger.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.DeliveryStatus{
		Message: message,
		Status:  status,
	})
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userIDHeader := r.Header.Get("User-ID")
	id, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		logger.Log.Warn("missing or invalid user ID in header", logger.String("user_id", userIDHeader), logger.Error(err))
		writeMessage(w, http.StatusUnauthorized, "Autenticação falhou: ID do usuário não fornecido.")
		return 0, false
	}

	return id, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Message{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("error while encoding response to JSON", logger.Error(err))
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Log.Error("error while closing request body", logger.Error(err))
	}
}
