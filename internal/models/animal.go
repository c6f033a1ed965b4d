package models

// AnimalType tags a pet account (or a human account's favourites) with a
// species.
type AnimalType string

const (
	AnimalDog     AnimalType = "Dog"
	AnimalCat     AnimalType = "Cat"
	AnimalBird    AnimalType = "Bird"
	AnimalFish    AnimalType = "Fish"
	AnimalRabbit  AnimalType = "Rabbit"
	AnimalHamster AnimalType = "Hamster"
	AnimalReptile AnimalType = "Reptile"
	AnimalOther   AnimalType = "Other"
)

// Valid reports whether a is a known animal type.
func (a AnimalType) Valid() bool {
	switch a {
	case AnimalDog, AnimalCat, AnimalBird, AnimalFish, AnimalRabbit, AnimalHamster, AnimalReptile, AnimalOther:
		return true
	}
	return false
}
