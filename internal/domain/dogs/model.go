package dogs

import "time"

// BloodType enumera los grupos sanguíneos caninos (sistema DEA).
// @Enum DEA_1_1_POSITIVE, DEA_1_1_NEGATIVE, DEA_1_2_POSITIVE, DEA_1_2_NEGATIVE, DEA_3_POSITIVE, DEA_3_NEGATIVE, DEA_4_POSITIVE, DEA_4_NEGATIVE, DEA_5_POSITIVE, DEA_5_NEGATIVE, DEA_7_POSITIVE, DEA_7_NEGATIVE, UNKNOWN
type BloodType string

const (
	DEA11Positive BloodType = "DEA_1_1_POSITIVE"
	DEA11Negative BloodType = "DEA_1_1_NEGATIVE"
	DEA12Positive BloodType = "DEA_1_2_POSITIVE"
	DEA12Negative BloodType = "DEA_1_2_NEGATIVE"
	DEA3Positive  BloodType = "DEA_3_POSITIVE"
	DEA3Negative  BloodType = "DEA_3_NEGATIVE"
	DEA4Positive  BloodType = "DEA_4_POSITIVE"
	DEA4Negative  BloodType = "DEA_4_NEGATIVE"
	DEA5Positive  BloodType = "DEA_5_POSITIVE"
	DEA5Negative  BloodType = "DEA_5_NEGATIVE"
	DEA7Positive  BloodType = "DEA_7_POSITIVE"
	DEA7Negative  BloodType = "DEA_7_NEGATIVE"

	// BloodTypeUnknown es un valor explícito: "tipificación pendiente".
	BloodTypeUnknown BloodType = "UNKNOWN"
)

// concreteBloodTypes son los 12 grupos DEA tipificables (sin UNKNOWN).
var concreteBloodTypes = []BloodType{
	DEA11Positive, DEA11Negative,
	DEA12Positive, DEA12Negative,
	DEA3Positive, DEA3Negative,
	DEA4Positive, DEA4Negative,
	DEA5Positive, DEA5Negative,
	DEA7Positive, DEA7Negative,
}

// ConcreteBloodTypes devuelve una copia de los grupos tipificables.
func ConcreteBloodTypes() []BloodType {
	out := make([]BloodType, len(concreteBloodTypes))
	copy(out, concreteBloodTypes)
	return out
}

func (b BloodType) Valid() bool {
	if b == BloodTypeUnknown {
		return true
	}
	for _, t := range concreteBloodTypes {
		if b == t {
			return true
		}
	}
	return false
}

// Sex define el sexo del perro.
// @Enum MALE, FEMALE
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Dog es el perfil de un perro donante registrado por su dueño.
// Nunca se borra: el dueño lo desactiva con Active=false.
type Dog struct {
	ID          string
	OwnerUserID string

	Name  string
	Breed string
	Sex   Sex

	DateOfBirth time.Time
	WeightKg    float64

	// BloodType nil = sin tipificar. Para matching se trata como UNKNOWN.
	BloodType *BloodType

	LastDonationDate *time.Time

	MedicalNotes      string
	VaccinationStatus string

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeYears calcula la edad en años enteros con división de días por 365
// (no calendar-aware). Las reglas de aptitud dependen de esta aritmética.
func (d Dog) AgeYears(now time.Time) int {
	return daysBetween(d.DateOfBirth, now) / 365
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
