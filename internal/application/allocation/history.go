package allocation

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// historyPageSize tamaño de página con que el iterador trae movimientos de BD.
const historyPageSize = 200

// HistoryIterator recorrido perezoso del log de movimientos en orden
// cronológico. Trae páginas bajo demanda vía keyset pagination; Cursor()
// expone el token de la posición actual, con el que un NewHistory posterior
// reanuda el recorrido exactamente donde quedó (reiniciable).
type HistoryIterator struct {
	repo   repository.MovementRepository
	filter repository.MovementFilter
	buf    []*entity.InventoryMovement
	pos    int
	done   bool
}

// History crea un iterador sobre el log de movimientos, opcionalmente
// filtrado por ítem y rango de fechas. filter.Cursor '' empieza desde el
// principio; un cursor previo reanuda.
func (e *Engine) History(filter repository.MovementFilter) *HistoryIterator {
	if filter.Limit <= 0 {
		filter.Limit = historyPageSize
	}
	return &HistoryIterator{repo: e.movements, filter: filter}
}

// Next devuelve el siguiente movimiento, o nil cuando el recorrido terminó.
func (it *HistoryIterator) Next(ctx context.Context) (*entity.InventoryMovement, error) {
	if it.pos >= len(it.buf) {
		if it.done {
			return nil, nil
		}
		page, next, err := it.repo.List(ctx, it.filter)
		if err != nil {
			return nil, err
		}
		it.buf = page
		it.pos = 0
		it.filter.Cursor = next
		if next == "" || len(page) == 0 {
			it.done = true
		}
		if len(page) == 0 {
			return nil, nil
		}
	}
	mov := it.buf[it.pos]
	it.pos++
	return mov, nil
}

// Cursor token opaco de reanudación: apunta a la página aún no consumida.
// Válido solo cuando el buffer actual se agotó (límites de página).
func (it *HistoryIterator) Cursor() string {
	return it.filter.Cursor
}
