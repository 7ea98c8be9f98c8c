package responses

import "time"

// Status de una respuesta. ACCEPTED y DECLINED son estados iniciales;
// COMPLETED es terminal y solo se llega desde ACCEPTED.
// @Enum ACCEPTED, DECLINED, COMPLETED
type Status string

const (
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusCompleted Status = "COMPLETED"
)

// ValidInitial indica si el estado puede elegirse al crear la respuesta.
func (s Status) ValidInitial() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Response es la respuesta de un dueño a un pedido con un perro concreto.
// El par (RequestID, DogID) es único para siempre: la primera respuesta
// es definitiva para ese par.
type Response struct {
	ID          string
	RequestID   string
	DogID       string
	OwnerUserID string

	Status  Status
	Message string

	CreatedAt time.Time
	UpdatedAt time.Time
}
