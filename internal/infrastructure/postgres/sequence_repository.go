package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo generador de numeración sobre PostgreSQL: una fila por
// (ámbito, día) en sequence_counters, incrementada con un único
// INSERT … ON CONFLICT DO UPDATE … RETURNING. El UPDATE bloquea la fila del
// contador hasta el cierre de la transacción del caller, linealizando a los
// workers concurrentes: N llamadas producen N enteros contiguos sin huecos
// ni duplicados. El reinicio diario es implícito en la clave.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el siguiente valor del contador (ámbito, día).
func (r *SequenceRepo) Next(ctx context.Context, scope string, day time.Time) (int64, error) {
	query := `
		INSERT INTO sequence_counters (scope, day, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (scope, day)
		DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value`
	var value int64
	err := r.q.QueryRow(ctx, query, scope, day.Format("2006-01-02")).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}
	return value, nil
}
