package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/resto-pos/internal/application/session"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/internal/infrastructure/rest"
)

// UseCase lecturas de catálogo: tiendas, sucursales e inventario. Son las
// pantallas "delgadas" del POS; aquí solo viven las llamadas al pipeline.
type UseCase struct {
	api  *rest.Client
	sess *session.Session
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(api *rest.Client, sess *session.Session) *UseCase {
	return &UseCase{api: api, sess: sess}
}

// Stores lista las tiendas visibles para el usuario.
func (uc *UseCase) Stores(ctx context.Context) ([]entity.Store, error) {
	resp, err := uc.api.Get(ctx, "/stores/", rest.WithoutStoreParam())
	if err != nil {
		return nil, err
	}
	var out []entity.Store
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("tiendas: respuesta ilegible: %w", err)
	}
	return out, nil
}

// Branches lista las sucursales de la tienda seleccionada.
func (uc *UseCase) Branches(ctx context.Context) ([]entity.Branch, error) {
	resp, err := uc.api.Get(ctx, "/branches/")
	if err != nil {
		return nil, err
	}
	var out []entity.Branch
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("sucursales: respuesta ilegible: %w", err)
	}
	return out, nil
}

// InventoryItems lista las existencias de la tienda seleccionada.
func (uc *UseCase) InventoryItems(ctx context.Context) ([]entity.InventoryItem, error) {
	resp, err := uc.api.Get(ctx, "/inventory/items/")
	if err != nil {
		return nil, err
	}
	var out []entity.InventoryItem
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("inventario: respuesta ilegible: %w", err)
	}
	return out, nil
}

// SelectStore persiste la selección de tienda que el pipeline inyecta como
// parámetro de query en las peticiones siguientes.
func (uc *UseCase) SelectStore(store entity.Store) error {
	return uc.sess.SaveSelectedStore(store.ID, store.Name)
}
