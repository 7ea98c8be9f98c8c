package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-blood-donation/internal/domain/dogs"
	"dog-blood-donation/internal/domain/requests"
)

type RequestsRepo struct {
	db *sql.DB
}

func NewRequestsRepo(db *sql.DB) *RequestsRepo {
	return &RequestsRepo{db: db}
}

func (r *RequestsRepo) Create(ctx context.Context, req requests.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO donation_requests (
			id, clinic_id, created_by_user_id,
			blood_type_needed, volume_ml, urgency,
			patient_info, needed_by_date, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		req.ID,
		req.ClinicID,
		req.CreatedByUserID,
		bloodTypeToNull(req.BloodTypeNeeded),
		req.VolumeML,
		string(req.Urgency),
		req.PatientInfo,
		req.NeededBy,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	return err
}

func (r *RequestsRepo) Update(ctx context.Context, req requests.Request) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE donation_requests
		SET
			blood_type_needed = $2,
			volume_ml = $3,
			urgency = $4,
			patient_info = $5,
			needed_by_date = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`,
		req.ID,
		bloodTypeToNull(req.BloodTypeNeeded),
		req.VolumeML,
		string(req.Urgency),
		req.PatientInfo,
		req.NeededBy,
		string(req.Status),
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (requests.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return requests.Request{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, requestSelect+` WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return requests.Request{}, ErrNotFound
		}
		return requests.Request{}, err
	}
	return req, nil
}

func (r *RequestsRepo) ListByStatus(ctx context.Context, status requests.Status) ([]requests.Request, error) {
	rows, err := r.db.QueryContext(ctx, requestSelect+` WHERE status = $1 ORDER BY created_at DESC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *RequestsRepo) ListByClinic(ctx context.Context, clinicID string) ([]requests.Request, error) {
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, requestSelect+` WHERE clinic_id = $1 ORDER BY created_at DESC`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

const requestSelect = `
	SELECT
		id, clinic_id, created_by_user_id,
		blood_type_needed, volume_ml, urgency,
		patient_info, needed_by_date, status,
		created_at, updated_at
	FROM donation_requests`

func scanRequest(row rowScanner) (requests.Request, error) {
	var req requests.Request
	var bt sql.NullString
	var urgency, status string

	if err := row.Scan(
		&req.ID,
		&req.ClinicID,
		&req.CreatedByUserID,
		&bt,
		&req.VolumeML,
		&urgency,
		&req.PatientInfo,
		&req.NeededBy,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return requests.Request{}, err
	}

	if bt.Valid {
		v := dogs.BloodType(bt.String)
		req.BloodTypeNeeded = &v
	}
	req.Urgency = requests.Urgency(urgency)
	req.Status = requests.Status(status)
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]requests.Request, error) {
	out := make([]requests.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
