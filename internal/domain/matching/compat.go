// Package matching contiene la tabla de compatibilidad sanguínea y el
// puntaje de ranking. Todo es cómputo puro sobre la enumeración DEA;
// la tabla es un modelo simplificado, no consejo veterinario.
package matching

import "dog-blood-donation/internal/domain/dogs"

// Puntajes de ranking. Solo ordenan resultados de browse, nunca deciden
// compatibilidad.
const (
	ScoreIncompatible = 0
	ScoreAnyRequest   = 50
	ScoreCompatible   = 75
	ScoreExactMatch   = 100
)

// UniversalDonor puede cubrir cualquier necesidad concreta.
const UniversalDonor = dogs.DEA11Negative

// satisfiableNeeds mapea cada tipo de donante al conjunto de necesidades
// concretas que puede cubrir. Una necesidad "any" (pedido sin tipo) no
// figura acá: la cubre todo donante, incluso UNKNOWN.
var satisfiableNeeds = buildTable()

func buildTable() map[dogs.BloodType]map[dogs.BloodType]struct{} {
	table := make(map[dogs.BloodType]map[dogs.BloodType]struct{})

	for _, donor := range dogs.ConcreteBloodTypes() {
		needs := make(map[dogs.BloodType]struct{})
		if donor == UniversalDonor {
			for _, n := range dogs.ConcreteBloodTypes() {
				needs[n] = struct{}{}
			}
		} else {
			needs[donor] = struct{}{}
		}
		table[donor] = needs
	}

	// Donante sin tipificar: ninguna necesidad concreta.
	table[dogs.BloodTypeUnknown] = map[dogs.BloodType]struct{}{}

	return table
}

// DonorType normaliza el tipo de un perro para matching: sin tipo
// registrado se trata como UNKNOWN (falla cerrado).
func DonorType(d dogs.Dog) dogs.BloodType {
	if d.BloodType == nil {
		return dogs.BloodTypeUnknown
	}
	return *d.BloodType
}

// Compatible indica si un donante puede cubrir la necesidad de un pedido.
// needed nil significa "cualquier tipo compatible".
func Compatible(donor dogs.BloodType, needed *dogs.BloodType) bool {
	if needed == nil {
		return true
	}
	needs, ok := satisfiableNeeds[donor]
	if !ok {
		return false
	}
	_, ok = needs[*needed]
	return ok
}

// Score puntúa un par donante/necesidad para ordenar resultados.
func Score(donor dogs.BloodType, needed *dogs.BloodType) int {
	if !Compatible(donor, needed) {
		return ScoreIncompatible
	}
	if needed == nil {
		return ScoreAnyRequest
	}
	if donor == UniversalDonor || donor == *needed {
		return ScoreExactMatch
	}
	return ScoreCompatible
}
