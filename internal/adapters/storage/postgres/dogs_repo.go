package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dog-blood-donation/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dog_profiles (
			id, owner_user_id,
			name, breed, sex,
			date_of_birth, weight_kg, blood_type,
			last_donation_date,
			medical_notes, vaccination_status,
			is_active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		d.ID,
		d.OwnerUserID,
		d.Name,
		d.Breed,
		string(d.Sex),
		d.DateOfBirth,
		d.WeightKg,
		bloodTypeToNull(d.BloodType),
		toNullDate(d.LastDonationDate),
		d.MedicalNotes,
		d.VaccinationStatus,
		d.Active,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dog_profiles
		SET
			name = $2,
			breed = $3,
			weight_kg = $4,
			blood_type = $5,
			last_donation_date = $6,
			medical_notes = $7,
			vaccination_status = $8,
			is_active = $9,
			updated_at = $10
		WHERE id = $1
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.WeightKg,
		bloodTypeToNull(d.BloodType),
		toNullDate(d.LastDonationDate),
		d.MedicalNotes,
		d.VaccinationStatus,
		d.Active,
		d.UpdatedAt,
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

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, dogSelect+` WHERE id = $1`, id)
	d, err := scanDog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return dogs.Dog{}, ErrNotFound
		}
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) ListByOwner(ctx context.Context, ownerUserID string, includeInactive bool) ([]dogs.Dog, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	q := dogSelect + ` WHERE owner_user_id = $1`
	if !includeInactive {
		q += ` AND is_active`
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const dogSelect = `
	SELECT
		id, owner_user_id,
		name, breed, sex,
		date_of_birth, weight_kg, blood_type,
		last_donation_date,
		medical_notes, vaccination_status,
		is_active,
		created_at, updated_at
	FROM dog_profiles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (dogs.Dog, error) {
	var d dogs.Dog
	var sex string
	var bt sql.NullString
	var ld sql.NullTime

	if err := row.Scan(
		&d.ID,
		&d.OwnerUserID,
		&d.Name,
		&d.Breed,
		&sex,
		&d.DateOfBirth,
		&d.WeightKg,
		&bt,
		&ld,
		&d.MedicalNotes,
		&d.VaccinationStatus,
		&d.Active,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}

	d.Sex = dogs.Sex(sex)
	if bt.Valid {
		v := dogs.BloodType(bt.String)
		d.BloodType = &v
	}
	if ld.Valid {
		t := ld.Time
		d.LastDonationDate = &t
	}
	return d, nil
}

func bloodTypeToNull(b *dogs.BloodType) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*b), Valid: true}
}

// las fechas DATE van como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
