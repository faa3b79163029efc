package purchase

import (
	"time"

	"coinshop/internal/events"
)

func ToPurchaseCreatedEvent(p Purchase) events.PurchaseCreated {
	return events.PurchaseCreated{
		OrderID:   p.ID,
		PackageID: p.PackageID,
		Amount:    p.Amount,
		Price:     p.Price,
		Provider:  p.Provider,
		At:        time.Now().UTC(),
	}
}

func ToPurchaseSucceededEvent(p Purchase, balance int64) events.PurchaseSucceeded {
	return events.PurchaseSucceeded{OrderID: p.ID, Amount: p.Amount, Balance: balance, At: time.Now().UTC()}
}

func ToPurchaseFailedEvent(p Purchase, balance int64) events.PurchaseFailed {
	return events.PurchaseFailed{OrderID: p.ID, Reason: p.ErrorMessage, Balance: balance, At: time.Now().UTC()}
}
