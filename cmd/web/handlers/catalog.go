package handlers

import (
	"net/http"

	"coinshop/internal/catalog"
	"coinshop/internal/provider"
)

type Catalog struct {
	catalog   CatalogContract
	providers ProviderRegistryContract
}

func NewCatalog(cat CatalogContract, providers ProviderRegistryContract) *Catalog {
	return &Catalog{catalog: cat, providers: providers}
}

type packagesResp struct {
	Packages       []catalog.Package `json:"packages"`
	MinCustomCoins int64             `json:"minCustomCoins"`
}

type providersResp struct {
	Providers []provider.Type `json:"providers"`
	Default   provider.Type   `json:"default,omitempty"`
}

func (h *Catalog) Packages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, packagesResp{Packages: h.catalog.Packages(), MinCustomCoins: catalog.MinCustomCoins})
}

// Providers lists enabled providers in declared order.
func (h *Catalog) Providers(w http.ResponseWriter, r *http.Request) {
	resp := providersResp{Providers: h.providers.EnabledProviders()}
	if resp.Providers == nil {
		resp.Providers = []provider.Type{}
	}
	if def, err := h.providers.DefaultProvider(); err == nil {
		resp.Default = def
	}
	writeJSON(w, r, http.StatusOK, resp)
}
