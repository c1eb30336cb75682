package entity

import "time"

// Lot agrupa líneas recibidas en una misma entrada de compra. Code es único
// por día (generado por el contador de secuencias). Los metadatos son
// mutables; las cantidades comerciales solo cambian por las operaciones de
// ajuste definidas en el motor.
type Lot struct {
	ID         string
	PurchaseID string
	Code       string // ej. LOT-20260829-00042
	IntakeDate time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
