package events

import "time"

type PurchaseCreated struct {
	OrderID   string    `json:"order_id"`
	PackageID int       `json:"package_id"`
	Amount    int64     `json:"amount"`
	Price     int64     `json:"price"`
	Provider  string    `json:"provider,omitempty"`
	At        time.Time `json:"at"`
}

func (PurchaseCreated) Name() string { return "purchase.created" }

func (e PurchaseCreated) PartitionKey() string { return e.OrderID }

type PurchaseSucceeded struct {
	OrderID string    `json:"order_id"`
	Amount  int64     `json:"amount"`
	Balance int64     `json:"balance"`
	At      time.Time `json:"at"`
}

func (PurchaseSucceeded) Name() string { return "purchase.succeeded" }

func (e PurchaseSucceeded) PartitionKey() string { return e.OrderID }

type PurchaseFailed struct {
	OrderID string    `json:"order_id"`
	Reason  string    `json:"reason,omitempty"`
	Balance int64     `json:"balance"`
	At      time.Time `json:"at"`
}

func (PurchaseFailed) Name() string { return "purchase.failed" }

func (e PurchaseFailed) PartitionKey() string { return e.OrderID }

type PaymentInitiated struct {
	OrderID   string    `json:"order_id"`
	Provider  string    `json:"provider"`
	GatewayID string    `json:"gateway_id,omitempty"`
	Price     int64     `json:"price"`
	Currency  string    `json:"currency"`
	At        time.Time `json:"at"`
}

func (PaymentInitiated) Name() string { return "payment.initiated" }

func (e PaymentInitiated) PartitionKey() string { return e.OrderID }
