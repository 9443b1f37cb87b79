package physics

import "fmt"

// Kind тип небесного тела
type Kind string

const (
	KindStar         Kind = "star"
	KindPlanet       Kind = "planet"
	KindMoon         Kind = "moon"
	KindAsteroid     Kind = "asteroid"
	KindComet        Kind = "comet"
	KindMeteor       Kind = "meteor"
	KindWhiteDwarf   Kind = "white-dwarf"
	KindNeutronStar  Kind = "neutron-star"
	KindBlackHole    Kind = "black-hole"
	KindMergedPlanet Kind = "merged-planet"
	KindFragment     Kind = "fragment"
)

// AllKinds полный список типов в порядке объявления
var AllKinds = []Kind{
	KindStar, KindPlanet, KindMoon, KindAsteroid, KindComet, KindMeteor,
	KindWhiteDwarf, KindNeutronStar, KindBlackHole, KindMergedPlanet, KindFragment,
}

// kindColors цвета отрисовки по умолчанию
var kindColors = map[Kind]string{
	KindMeteor:       "#ffffff",
	KindWhiteDwarf:   "#aaaaff",
	KindBlackHole:    "#000000",
	KindNeutronStar:  "#ff00ff",
	KindMergedPlanet: "#88ff88",
	KindComet:        "#ff8822",
	KindFragment:     "#ffffff",
}

const (
	DefaultTrailLength = 200
	CometTrailLength   = 400
)

func (k Kind) String() string {
	return string(k)
}

// DefaultColor цвет отрисовки по умолчанию, пустой для типов без него
func (k Kind) DefaultColor() string {
	return kindColors[k]
}

// Valid проверяет, что тип входит в перечисление
func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind разбирает тип из строки
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown body kind %q", s)
	}
	return k, nil
}

// IsPlanetLike планета или продукт слияния планет
func (k Kind) IsPlanetLike() bool {
	return k == KindPlanet || k == KindMergedPlanet
}

// IsTidallyDisruptable может ли тело быть разорвано приливными силами
func (k Kind) IsTidallyDisruptable() bool {
	return k.IsPlanetLike() || k == KindMoon
}

// IsCompact белый карлик, нейтронная звезда или черная дыра
func (k Kind) IsCompact() bool {
	return k == KindWhiteDwarf || k == KindNeutronStar || k == KindBlackHole
}

// IsMeteorLike метеоры и осколки ведут себя одинаково при столкновениях
func (k Kind) IsMeteorLike() bool {
	return k == KindMeteor || k == KindFragment
}

// HasOrbitalPeriod для каких типов имеет смысл оценка орбитального периода
func (k Kind) HasOrbitalPeriod() bool {
	return k == KindPlanet || k == KindMoon || k == KindMergedPlanet
}

// TrailLength максимальная длина следа для типа
func (k Kind) TrailLength() int {
	if k == KindComet {
		return CometTrailLength
	}
	return DefaultTrailLength
}
