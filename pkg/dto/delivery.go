package dto

import (
	"errors"
	"fmt"
	"strings"
)

type CreateDelivery struct {
	Amount      float64 `json:"valor"`
	Origin      string  `json:"origem"`
	Destination string  `json:"destino"`
	Description string  `json:"descricao"`
}

func (c CreateDelivery) IsValid() error {
	var amountErr, originErr, destinationErr error

	if c.Amount <= 0 {
		amountErr = fmt.Errorf("valor must be greater than zero")
	}

	if strings.TrimSpace(c.Origin) == "" {
		originErr = fmt.Errorf("origem is required")
	}

	if strings.TrimSpace(c.Destination) == "" {
		destinationErr = fmt.Errorf("destino is required")
	}

	return errors.Join(amountErr, originErr, destinationErr)
}

/**
  {
      "id": 7,
      "solicitanteId": 42,
      "entregadorId": 17,
      "status": "accepted",
      "valor": 35.5,
      "origem": "Rua A, 10",
      "destino": "Av. B, 200",
      "descricao": "Documentos",
      "criadaEm": "2024-03-01T15:15:45-03:00"
  }
*/

type Delivery struct {
	ID          int64   `json:"id"`
	RequesterID int64   `json:"solicitanteId"`
	CourierID   *int64  `json:"entregadorId,omitempty"`
	Status      string  `json:"status"`
	Amount      float64 `json:"valor"`
	Origin      string  `json:"origem"`
	Destination string  `json:"destino"`
	Description string  `json:"descricao,omitempty"`
	CreatedAt   string  `json:"criadaEm"`
}

type DeliveryCreated struct {
	Message    string `json:"message"`
	DeliveryID int64  `json:"entregaId"`
}

type DeliveryStatus struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
