package physics

import "math"

// Merge объединяет два тела в новое тело типа merged-planet.
//
// Масса складывается, позиция и скорость усредняются с весами масс,
// радиус считается из суммы объемов при равной плотности. Оба исходных
// тела помечаются на удаление.
func Merge(a, b *Body, id string) *Body {
	total := a.Mass + b.Mass
	pos := a.Position.Mul(a.Mass).Add(b.Position.Mul(b.Mass)).Mul(1 / total)
	vel := a.Velocity.Mul(a.Mass).Add(b.Velocity.Mul(b.Mass)).Mul(1 / total)
	radius := math.Cbrt(a.Radius*a.Radius*a.Radius + b.Radius*b.Radius*b.Radius)

	merged := NewBody(id, KindMergedPlanet, total, radius, pos, vel)

	a.MarkForRemoval()
	b.MarkForRemoval()
	return merged
}
