package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dog-blood-donation/internal/domain/responses"
)

type ResponsesRepo struct {
	db *sql.DB
}

func NewResponsesRepo(db *sql.DB) *ResponsesRepo {
	return &ResponsesRepo{db: db}
}

// Create inserta la respuesta. La constraint única uq_request_dog sobre
// (request_id, dog_id) es la autoridad final para la carrera de creación:
// el perdedor recibe responses.ErrDuplicatePair.
func (r *ResponsesRepo) Create(ctx context.Context, resp responses.Response) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO donation_responses (
			id, request_id, dog_id, owner_user_id,
			status, response_message,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		resp.ID,
		resp.RequestID,
		resp.DogID,
		resp.OwnerUserID,
		string(resp.Status),
		resp.Message,
		resp.CreatedAt,
		resp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return responses.ErrDuplicatePair
		}
		return err
	}
	return nil
}

func (r *ResponsesRepo) GetByID(ctx context.Context, id string) (responses.Response, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return responses.Response{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, responseSelect+` WHERE id = $1`, id)
	return scanResponse(row)
}

func (r *ResponsesRepo) GetByRequestAndDog(ctx context.Context, requestID, dogID string) (responses.Response, error) {
	row := r.db.QueryRowContext(ctx, responseSelect+` WHERE request_id = $1 AND dog_id = $2`, requestID, dogID)
	return scanResponse(row)
}

func (r *ResponsesRepo) ListByRequest(ctx context.Context, requestID string) ([]responses.Response, error) {
	rows, err := r.db.QueryContext(ctx, responseSelect+` WHERE request_id = $1 ORDER BY created_at ASC`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponses(rows)
}

func (r *ResponsesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]responses.Response, error) {
	rows, err := r.db.QueryContext(ctx, responseSelect+` WHERE owner_user_id = $1 ORDER BY created_at DESC`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponses(rows)
}

// Complete cambia el estado de la respuesta y la fecha de última donación
// del perro en UNA transacción: nunca queda visible un cambio sin el otro.
// El update de la respuesta está guardado por estado: si ya no está
// ACCEPTED no matchea fila y se devuelve ErrNotCompletable sin tocar nada.
func (r *ResponsesRepo) Complete(ctx context.Context, responseID, dogID string, completedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE donation_responses
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`,
		responseID,
		string(responses.StatusCompleted),
		completedAt,
		string(responses.StatusAccepted),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return responses.ErrNotCompletable
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE dog_profiles
		SET last_donation_date = $2, updated_at = $3
		WHERE id = $1
	`,
		dogID,
		completedAt,
		completedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

const responseSelect = `
	SELECT
		id, request_id, dog_id, owner_user_id,
		status, response_message,
		created_at, updated_at
	FROM donation_responses`

func scanResponse(row rowScanner) (responses.Response, error) {
	var resp responses.Response
	var status string

	if err := row.Scan(
		&resp.ID,
		&resp.RequestID,
		&resp.DogID,
		&resp.OwnerUserID,
		&status,
		&resp.Message,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return responses.Response{}, ErrNotFound
		}
		return responses.Response{}, err
	}

	resp.Status = responses.Status(status)
	return resp, nil
}

func collectResponses(rows *sql.Rows) ([]responses.Response, error) {
	out := make([]responses.Response, 0)
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}
