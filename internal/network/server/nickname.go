package server

import (
	"math/rand/v2"
)

var (
	adjectives = []string{
		"Tranquilo", "Fogoso", "Astuto", "Valiente", "Alegre",
		"Sereno", "Rapido", "Curtido", "Picante", "Callejero",
		"Legendario", "Humilde", "Terrible", "Sabroso", "Fino",
	}

	nouns = []string{
		"Tiguere", "Capitan", "Trancador", "Matador", "Jugador",
		"Compadre", "Maestro", "Veterano", "Campeon", "Vecino",
		"Brujo", "Caballo", "Gallo", "Leon", "Zorro",
	}
)

// GenerateNickname produces a placeholder name for players that never set one.
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return adj + noun
}
