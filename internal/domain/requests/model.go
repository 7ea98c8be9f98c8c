package requests

import (
	"time"

	"dog-blood-donation/internal/domain/dogs"
)

// Urgency ordena los pedidos: CRITICAL primero.
// @Enum CRITICAL, URGENT, ROUTINE
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyUrgent   Urgency = "URGENT"
	UrgencyRoutine  Urgency = "ROUTINE"
)

func (u Urgency) Valid() bool {
	return u == UrgencyCritical || u == UrgencyUrgent || u == UrgencyRoutine
}

// Rank da el orden total de urgencias (menor = más urgente).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyUrgent:
		return 1
	case UrgencyRoutine:
		return 2
	default:
		return 3
	}
}

// Status del pedido. OPEN es el único estado no terminal.
// @Enum OPEN, FULFILLED, CANCELLED, EXPIRED
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusFulfilled Status = "FULFILLED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// Límites de volumen por pedido.
const (
	MinVolumeML = 50
	MaxVolumeML = 500
)

// Request es un pedido de sangre creado por una clínica.
// Nunca se borra físicamente; solo cambia de estado.
type Request struct {
	ID              string
	ClinicID        string
	CreatedByUserID string

	// BloodTypeNeeded nil = cualquier donante compatible.
	BloodTypeNeeded *dogs.BloodType

	VolumeML    int
	Urgency     Urgency
	PatientInfo string

	NeededBy time.Time
	Status   Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired indica si ya pasó la fecha límite.
func (r Request) Expired(now time.Time) bool {
	return now.After(r.NeededBy)
}

// EffectiveStatus deriva EXPIRED de la fecha límite sin materializarlo:
// un pedido OPEN vencido se lee como EXPIRED aunque la fila siga en OPEN.
func (r Request) EffectiveStatus(now time.Time) Status {
	if r.Status == StatusOpen && r.Expired(now) {
		return StatusExpired
	}
	return r.Status
}

// OpenFor indica si el pedido admite respuestas y mutaciones.
func (r Request) OpenFor(now time.Time) bool {
	return r.EffectiveStatus(now) == StatusOpen
}
