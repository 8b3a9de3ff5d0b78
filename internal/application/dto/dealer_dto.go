package dto

import "github.com/jhoicas/asha-billing/internal/domain/entity"

// DealerRequest cuerpo para POST/PUT /api/dealers.
type DealerRequest struct {
	Name     string `json:"name"`
	GSTIN    string `json:"gstin"`
	Location string `json:"location"`
	Address  string `json:"address,omitempty"`
}

// DealerResponse distribuidor en respuestas.
type DealerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	GSTIN    string `json:"gstin"`
	Location string `json:"location"`
	Address  string `json:"address,omitempty"`
}

// DealerFromEntity mapea un distribuidor almacenado.
func DealerFromEntity(d *entity.Dealer) DealerResponse {
	return DealerResponse{ID: d.ID, Name: d.Name, GSTIN: d.GSTIN, Location: d.Location, Address: d.Address}
}

// DealerSyncRequest cuerpo para POST /api/dealers/sync.
type DealerSyncRequest struct {
	URL string `json:"url"`
}

// DealerSyncResponse resume una sincronización.
type DealerSyncResponse struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
