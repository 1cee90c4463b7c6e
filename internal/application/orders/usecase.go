package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/resto-pos/internal/application/dto"
	"github.com/jhoicas/resto-pos/internal/application/kds"
	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/internal/infrastructure/rest"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// UseCase operaciones de pedidos sobre el pipeline REST: bootstrap de la
// pantalla de cocina/caja y mutaciones con actualización optimista.
type UseCase struct {
	api      *rest.Client
	notifier ports.Notifier
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(api *rest.Client, notifier ports.Notifier, log *logger.Logger) *UseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{api: api, notifier: notifier, log: log}
}

// ActiveOrders trae la lista autoritativa de pedidos activos (bootstrap de
// pantalla y re-sincronización tras mutaciones fallidas).
func (uc *UseCase) ActiveOrders(ctx context.Context) ([]entity.Order, error) {
	resp, err := uc.api.Get(ctx, "/orders/kds/")
	if err != nil {
		return nil, err
	}
	var out []entity.Order
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("pedidos activos: respuesta ilegible: %w", err)
	}
	return out, nil
}

// List trae todos los pedidos de la tienda seleccionada.
func (uc *UseCase) List(ctx context.Context) ([]entity.Order, error) {
	resp, err := uc.api.Get(ctx, "/orders/")
	if err != nil {
		return nil, err
	}
	var out []entity.Order
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("listar pedidos: respuesta ilegible: %w", err)
	}
	return out, nil
}

// Get trae un pedido por id.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	resp, err := uc.api.Get(ctx, "/orders/"+id+"/")
	if err != nil {
		return nil, err
	}
	var out entity.Order
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("pedido %s: respuesta ilegible: %w", id, err)
	}
	return &out, nil
}

// Create da de alta un pedido (pantalla de caja).
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*entity.Order, error) {
	resp, err := uc.api.Post(ctx, "/orders/", in)
	if err != nil {
		return nil, err
	}
	var out entity.Order
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("crear pedido: respuesta ilegible: %w", err)
	}
	return &out, nil
}

// UpdateStatus cambia el estado de un pedido con contrato optimista: la
// proyección local se muta de inmediato y se emite el PATCH. Si el PATCH
// falla NO se revierte en el sitio: se re-trae la lista autoritativa para
// re-sincronizar (evita acumular divergencia) y se avisa al operador. El
// pedido local queda como lo deje el servidor en cualquier caso, porque el
// próximo evento del canal lo sobreescribe.
func (uc *UseCase) UpdateStatus(ctx context.Context, rec *kds.Reconciler, id string, status entity.OrderStatus) error {
	rec.SetStatus(id, status)

	_, err := uc.api.Patch(ctx, "/orders/"+id+"/", dto.UpdateOrderStatusRequest{Status: status})
	if err == nil {
		return nil
	}

	uc.notifier.Alert(fmt.Sprintf("no se pudo actualizar el pedido %s: %v", id, err))
	fresh, ferr := uc.ActiveOrders(ctx)
	if ferr != nil {
		uc.log.Warn().Err(ferr).Str("order", id).Msg("re-sincronización tras mutación fallida también falló")
		return err
	}
	rec.Bootstrap(fresh)
	return err
}
