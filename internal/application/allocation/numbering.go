package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// sequenceMaxRetries reintentos ante colisión del contador antes de rendirse.
const sequenceMaxRetries = 3

// Ámbitos de numeración conocidos.
const (
	SequenceScopeLot = "LOT"
)

// nextCode obtiene el siguiente consecutivo del contador (ámbito, día) y lo
// formatea con cero-padding, ej. LOT-20260829-00042. Reintenta hasta
// sequenceMaxRetries ante colisiones de serialización; agotados los intentos
// devuelve ErrSequenceExhausted.
func nextCode(ctx context.Context, seqs repository.SequenceRepository, scope string, day time.Time) (string, error) {
	var lastErr error
	for attempt := 0; attempt < sequenceMaxRetries; attempt++ {
		n, err := seqs.Next(ctx, scope, day)
		if err == nil {
			return fmt.Sprintf("%s-%s-%05d", scope, day.Format("20060102"), n), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w (último error: %v)", domain.ErrSequenceExhausted, lastErr)
}
