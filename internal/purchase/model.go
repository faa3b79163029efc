package purchase

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Purchase is one attempted coin purchase. Amount already includes any bonus
// and is never recomputed.
type Purchase struct {
	ID           string    `json:"id"`
	PackageID    int       `json:"packageId"`
	Amount       int64     `json:"amount"`
	Price        int64     `json:"price"`
	Date         time.Time `json:"date"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Provider     string    `json:"provider,omitempty"`
}

// Summary is the customer-facing view: balance plus history, newest first.
type Summary struct {
	Balance         int64      `json:"balance"`
	PurchaseHistory []Purchase `json:"purchaseHistory"`
}

// Balance sums the amounts of successful purchases.
func Balance(list []Purchase) int64 {
	var total int64
	for _, p := range list {
		if p.Status == StatusSuccess {
			total += p.Amount
		}
	}
	return total
}
