// Package inventory contiene los servicios puros del dominio de asignación:
// planificación de consumo sobre buckets ordenados y recálculo de totales de
// compra. Sin estado ni acceso a BD; el motor decide el orden de los buckets
// y este paquete decide cuánto toma de cada uno.
package inventory

// Bucket una fuente de unidades con identidad y disponibilidad. El caller
// arma el slice ya ordenado según la política (FIFO por fecha de ingreso,
// LIFO para restauraciones, reserva-primero para salidas genéricas).
type Bucket struct {
	ID        string
	Available int64
}

// Take cuánto se toma de un bucket concreto.
type Take struct {
	ID  string
	Qty int64
}

// Plan recorre los buckets en orden consumiendo con avidez hasta satisfacer
// qty. Devuelve las tomas por bucket y el faltante (0 si la cantidad total
// alcanza). No muta nada: si hay faltante, el caller aborta sin aplicar tomas
// (todo-o-nada).
func Plan(buckets []Bucket, qty int64) ([]Take, int64) {
	takes := make([]Take, 0, len(buckets))
	remaining := qty
	for _, b := range buckets {
		if remaining == 0 {
			break
		}
		if b.Available <= 0 {
			continue
		}
		take := b.Available
		if take > remaining {
			take = remaining
		}
		takes = append(takes, Take{ID: b.ID, Qty: take})
		remaining -= take
	}
	return takes, remaining
}

// TotalAvailable suma la disponibilidad de todos los buckets.
func TotalAvailable(buckets []Bucket) int64 {
	var total int64
	for _, b := range buckets {
		if b.Available > 0 {
			total += b.Available
		}
	}
	return total
}
