package physics

// Единицы: расстояние в АЕ, масса в массах Солнца, время в годах.
const (
	// G гравитационная постоянная в АЕ³/(M☉·год²), равна 4π²
	G = 39.47841760435743

	// SI константы для перевода радиуса Шварцшильда в АЕ
	GravitationalConstantSI = 6.67430e-11
	SolarMassKg             = 1.98847e30
	SpeedOfLight            = 299792458.0
	AstronomicalUnitMeters  = 1.495978707e11

	DaysPerYear    = 365.2425
	SecondsPerYear = 31557600.0
	KmPerAU        = 1.496e8
)

// SchwarzschildRadius радиус горизонта событий r = 2GM/c² в АЕ для массы в M☉
func SchwarzschildRadius(mass float64) float64 {
	meters := 2 * GravitationalConstantSI * (mass * SolarMassKg) / (SpeedOfLight * SpeedOfLight)
	return meters / AstronomicalUnitMeters
}

// KgToSolarMass переводит килограммы в массы Солнца
func KgToSolarMass(kg float64) float64 {
	return kg / SolarMassKg
}

// AUPerYearToKmPerSecond переводит скорость из АЕ/год в км/с
func AUPerYearToKmPerSecond(v float64) float64 {
	return v * KmPerAU / SecondsPerYear
}
