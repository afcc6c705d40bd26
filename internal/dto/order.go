package dto

import (
	"time"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

type PlaceOrderRequestDTO struct {
	ServiceID int    `json:"serviceId" example:"1"`
	Link      string `json:"link" example:"https://instagram.com/p/abc"`
	Quantity  int    `json:"quantity" example:"5000"`
}

type PlacedOrderDTO struct {
	OrderID int64  `json:"orderId" example:"10001"`
	Charge  string `json:"charge" example:"50.00"`
	Status  string `json:"status" example:"Pending"`
}

type MassOrderRequestDTO struct {
	Orders []string `json:"orders" validate:"required,min=1,max=1000" example:"1|https://instagram.com/p/abc|1000"`
}

type MassOrderResponseDTO struct {
	Count       int     `json:"count" example:"3"`
	TotalCharge string  `json:"totalCharge" example:"30.00"`
	OrderIDs    []int64 `json:"orders" example:"10001,10002,10003"`
}

type OrderDTO struct {
	OrderID    int64  `json:"orderId" example:"10001"`
	ServiceID  int    `json:"serviceId" example:"1"`
	Service    string `json:"serviceName" example:"Instagram Followers"`
	Category   string `json:"category" example:"Instagram"`
	Link       string `json:"link" example:"https://instagram.com/p/abc"`
	Quantity   int    `json:"quantity" example:"5000"`
	Charge     string `json:"charge" example:"50.00"`
	StartCount int    `json:"startCount" example:"0"`
	Remains    int    `json:"remains" example:"5000"`
	Status     string `json:"status" example:"Pending"`
	CreatedAt  string `json:"createdAt" example:"2026-10-01T12:00:00Z"`
}

type OrdersResponseDTO struct {
	Orders []OrderDTO `json:"orders"`
	PageDTO
}

func NewPlacedOrder(o *domain.Order) PlacedOrderDTO {
	return PlacedOrderDTO{
		OrderID: o.OrderID,
		Charge:  domain.FormatMoney(o.Charge),
		Status:  string(o.Status),
	}
}

func NewOrder(o *domain.Order) OrderDTO {
	return OrderDTO{
		OrderID:    o.OrderID,
		ServiceID:  o.ServiceID,
		Service:    o.ServiceName,
		Category:   o.ServiceCategory,
		Link:       o.Link,
		Quantity:   o.Quantity,
		Charge:     domain.FormatMoney(o.Charge),
		StartCount: o.StartCount,
		Remains:    o.Remains,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}

func NewOrders(p *domain.Page[domain.Order]) OrdersResponseDTO {
	orders := make([]OrderDTO, 0, len(p.Items))
	for i := range p.Items {
		orders = append(orders, NewOrder(&p.Items[i]))
	}
	return OrdersResponseDTO{
		Orders:  orders,
		PageDTO: newPage(p),
	}
}
