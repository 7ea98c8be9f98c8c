package responses

import (
	"context"
	"errors"
	"time"
)

// Errores que los adapters deben devolver para que el servicio traduzca
// el resultado de la carrera igual que el pre-chequeo.
var (
	// ErrDuplicatePair: ya existe una respuesta para (request, dog).
	// En Postgres sale de la constraint única; en memoria, del índice por par.
	ErrDuplicatePair = errors.New("response already exists for this request and dog")

	// ErrNotCompletable: el update guardado por estado no matcheó fila
	// (la respuesta dejó de estar ACCEPTED entre la lectura y la escritura).
	ErrNotCompletable = errors.New("response is not in an accepted state")
)

type Repository interface {
	// Create inserta la respuesta. Debe devolver ErrDuplicatePair si el par
	// (RequestID, DogID) ya existe, sin importar quién ganó la carrera.
	Create(ctx context.Context, resp Response) error

	GetByID(ctx context.Context, id string) (Response, error)
	GetByRequestAndDog(ctx context.Context, requestID, dogID string) (Response, error)
	ListByRequest(ctx context.Context, requestID string) ([]Response, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Response, error)

	// Complete pasa la respuesta a COMPLETED y fija last_donation_date del
	// perro en la MISMA unidad de trabajo: o se ven ambos cambios o ninguno.
	// Solo aplica si el estado actual es ACCEPTED (si no, ErrNotCompletable).
	Complete(ctx context.Context, responseID, dogID string, completedAt time.Time) error
}
