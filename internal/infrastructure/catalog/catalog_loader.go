// Package catalog carga la lista de productos que ofrece el formulario rápido.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
)

var _ appbilling.CatalogSource = (*Static)(nil)

// Static implementa billing.CatalogSource con un catálogo fijo.
type Static struct {
	catalog entity.Catalog
}

// Catalog implementa billing.CatalogSource.
func (s *Static) Catalog() entity.Catalog { return s.catalog }

// Load lee de path un arreglo JSON de {name, hsn, default_price}. Un path
// vacío devuelve el catálogo incorporado.
func Load(path string) (*Static, error) {
	if strings.TrimSpace(path) == "" {
		return &Static{catalog: entity.DefaultCatalog()}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodifica y valida un catálogo JSON. Los artículos se ordenan por nombre.
func Parse(data []byte) (*Static, error) {
	var items []entity.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: no items")
	}
	seen := make(map[string]bool, len(items))
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		items[i].HSN = strings.TrimSpace(items[i].HSN)
		if items[i].Name == "" {
			return nil, fmt.Errorf("catalog: item %d has no name", i+1)
		}
		if seen[items[i].Name] {
			return nil, fmt.Errorf("catalog: duplicate item %q", items[i].Name)
		}
		seen[items[i].Name] = true
	}
	sort.Slice(items, func(a, b int) bool { return items[a].Name < items[b].Name })
	return &Static{catalog: entity.Catalog{Items: items}}, nil
}
