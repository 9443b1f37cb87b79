package physics

// PhysicsConfig настраиваемые параметры физики
type PhysicsConfig struct {
	// RocheBlackHoleFactor множитель радиуса Шварцшильда для приливной зоны черной дыры
	RocheBlackHoleFactor float64

	// RocheCompactFactor множитель физического радиуса для белых карликов и нейтронных звезд
	RocheCompactFactor float64

	// FragmentMin и FragmentSpread: число осколков FragmentMin + rand(FragmentSpread)
	FragmentMin    int
	FragmentSpread int

	// FragmentRingFactor радиус кольца осколков относительно приливного порога
	FragmentRingFactor float64

	// FragmentSpeed скорость разлета осколков, АЕ/год
	FragmentSpeed float64

	// FragmentRadiusDivisor во сколько раз радиус осколка меньше исходного
	FragmentRadiusDivisor float64

	Comet CometConfig
}

// CometConfig параметры жизненного цикла комет
type CometConfig struct {
	SpawnDistance float64 // АЕ
	OuterBound    float64 // АЕ, дальше комета удаляется
	InnerBound    float64 // АЕ, ближе комета удаляется
	MassMinKg     float64
	MassSpreadKg  float64
	SpeedMin      float64 // АЕ/год
	SpeedSpread   float64 // АЕ/год
	Radius        float64 // АЕ
}

// DefaultPhysicsConfig возвращает конфигурацию по умолчанию
func DefaultPhysicsConfig() *PhysicsConfig {
	return &PhysicsConfig{
		RocheBlackHoleFactor:  50,
		RocheCompactFactor:    5,
		FragmentMin:           5,
		FragmentSpread:        5,
		FragmentRingFactor:    0.2,
		FragmentSpeed:         0.3,
		FragmentRadiusDivisor: 3,
		Comet:                 DefaultCometConfig(),
	}
}

// DefaultCometConfig возвращает параметры комет по умолчанию
func DefaultCometConfig() CometConfig {
	return CometConfig{
		SpawnDistance: 55,
		OuterBound:    80,
		InnerBound:    0.1,
		MassMinKg:     1e13,
		MassSpreadKg:  5e13,
		SpeedMin:      0.15,
		SpeedSpread:   0.05,
		Radius:        1e-5,
	}
}
