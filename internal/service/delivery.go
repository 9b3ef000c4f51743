package service

import (
	"github.com/renanjardim/back-end-rota-certa/internal/domain"
)

type DeliveryRepository interface {
	CreateDelivery(d domain.Delivery) (int64, error)
	Deliveries(userID int64, filter domain.DeliveryFilter) ([]domain.Delivery, error)
	AcceptDelivery(deliveryID, courierID int64) error
	CompleteDelivery(deliveryID, courierID int64) error
	FailDelivery(deliveryID, courierID int64) error
	CompleteReturn(deliveryID, requesterID int64) error
}

type DeliveryService struct {
	repo DeliveryRepository
}

func NewDeliveryService(repo DeliveryRepository) *DeliveryService {
	return &DeliveryService{
		repo: repo,
	}
}

func (s *DeliveryService) Create(requesterID int64, amount float64, origin, destination, description string) (int64, error) {
	return s.repo.CreateDelivery(domain.Delivery{
		RequesterID: requesterID,
		Amount:      amount,
		Origin:      origin,
		Destination: destination,
		Description: description,
	})
}

func (s *DeliveryService) Deliveries(userID int64, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	return s.repo.Deliveries(userID, filter)
}

func (s *DeliveryService) Accept(deliveryID, courierID int64) error {
	return s.repo.AcceptDelivery(deliveryID, courierID)
}

func (s *DeliveryService) Complete(deliveryID, courierID int64) error {
	return s.repo.CompleteDelivery(deliveryID, courierID)
}

func (s *DeliveryService) Fail(deliveryID, courierID int64) error {
	return s.repo.FailDelivery(deliveryID, courierID)
}

func (s *DeliveryService) CompleteReturn(deliveryID, requesterID int64) error {
	return s.repo.CompleteReturn(deliveryID, requesterID)
}
