package handlers

import "net/http"

type Purchases struct {
	store PurchaseStoreContract
}

func NewPurchases(store PurchaseStoreContract) *Purchases {
	return &Purchases{store: store}
}

// List handles GET /purchases: balance plus history, newest first.
func (h *Purchases) List(w http.ResponseWriter, r *http.Request) {
	sum, err := h.store.Summary(r.Context())
	if err != nil {
		writeError(w, r, "List", err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (h *Purchases) Balance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.store.AggregateBalance(r.Context())
	if err != nil {
		writeError(w, r, "Balance", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int64{"balance": bal})
}

// Reset handles DELETE /purchases.
func (h *Purchases) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		writeError(w, r, "Reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
