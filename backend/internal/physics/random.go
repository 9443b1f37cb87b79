package physics

// RandomSource источник случайности, совместимый с *rand.Rand из math/rand/v2
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// Spawner принимает тела, созданные посреди фазы. Они становятся активными
// только после завершения фазы.
type Spawner interface {
	Defer(body *Body)
	NextID(prefix string) string
}
