package animals

// Sex define el sexo registrado del animal.
// @Enum Female, Male
type Sex string

const (
	SexFemale Sex = "Female"
	SexMale   Sex = "Male"
)

func (s Sex) Valid() bool {
	return s == SexFemale || s == SexMale
}

// Kind define las categorías de animal soportadas.
// @Enum Cow, Heifer, CalfMale, CalfFemale, Steer, Bull
type Kind string

const (
	KindCow        Kind = "Cow"
	KindHeifer     Kind = "Heifer"
	KindCalfMale   Kind = "CalfMale"
	KindCalfFemale Kind = "CalfFemale"
	KindSteer      Kind = "Steer"
	KindBull       Kind = "Bull"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCow, KindHeifer, KindCalfMale, KindCalfFemale, KindSteer, KindBull:
		return true
	}
	return false
}

// ParentRole identifica cuál de las dos aristas de parentesco se toca.
type ParentRole string

const (
	ParentMother ParentRole = "mother"
	ParentFather ParentRole = "father"
)

func (r ParentRole) Valid() bool {
	return r == ParentMother || r == ParentFather
}
