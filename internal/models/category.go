package models

// Category is the kind of outcome a wager predicts. Values match the labels
// accepted on the wire.
type Category string

const (
	CategoryWinner       Category = "Ganador"
	CategorySecondPlace  Category = "Segundo Puesto"
	CategoryThirdPlace   Category = "Tercer Puesto"
	CategoryFastestLap   Category = "Vuelta Rápida"
	CategoryPolePosition Category = "Pole Position"
	CategoryWinningTeam  Category = "Equipo Ganador"
)

// EntityType distinguishes the two kinds of participants a wager can name
type EntityType string

const (
	EntityDriver EntityType = "driver"
	EntityTeam   EntityType = "team"
)

// Categories lists every supported category in display order
var Categories = []Category{
	CategoryWinner,
	CategorySecondPlace,
	CategoryThirdPlace,
	CategoryFastestLap,
	CategoryPolePosition,
	CategoryWinningTeam,
}

// ParseCategory maps a wire label to a Category
func ParseCategory(label string) (Category, bool) {
	c := Category(label)
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// Valid reports whether c is one of the supported categories
func (c Category) Valid() bool {
	return c.Entity() != ""
}

// Entity returns the participant kind the category is priced and resolved against
func (c Category) Entity() EntityType {
	switch c {
	case CategoryWinner, CategorySecondPlace, CategoryThirdPlace, CategoryFastestLap, CategoryPolePosition:
		return EntityDriver
	case CategoryWinningTeam:
		return EntityTeam
	default:
		return ""
	}
}

// ResultColumn returns the race result field holding the winner for c
func (c Category) ResultColumn() string {
	switch c {
	case CategoryWinner:
		return "ganador"
	case CategorySecondPlace:
		return "segundo_puesto"
	case CategoryThirdPlace:
		return "tercer_puesto"
	case CategoryFastestLap:
		return "vuelta_rapida"
	case CategoryPolePosition:
		return "pole_position"
	case CategoryWinningTeam:
		return "equipo_ganador"
	default:
		return ""
	}
}

func (c Category) String() string {
	return string(c)
}
