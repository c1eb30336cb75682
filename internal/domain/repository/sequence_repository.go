package repository

import (
	"context"
	"time"
)

// SequenceRepository puerto del generador de numeración por (ámbito, día).
// El contador vive en una fila por clave, incrementada bajo lock dentro de la
// transacción del caller; nunca un contador en memoria, porque corren varios
// workers a la vez. El reinicio diario es implícito: el día hace parte de la clave.
type SequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor del contador (ámbito, día).
	Next(ctx context.Context, scope string, day time.Time) (int64, error)
}
