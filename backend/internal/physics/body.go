package physics

import "math"

// Body небесное тело симуляции
type Body struct {
	ID     string
	Kind   Kind
	Mass   float64 // M☉
	Radius float64 // АЕ

	Position     Vec3 // АЕ
	Velocity     Vec3 // АЕ/год
	Acceleration Vec3 // АЕ/год², последнее вычисленное значение

	// OrbitReference есть ли у тела опорная орбита (засеянные планеты и Луна).
	// Только такие тела проверяются на приливное разрушение.
	OrbitReference bool

	// Color данные для отрисовки, физикой не используются
	Color string

	markedForRemoval bool
	trail            *Trail
}

// NewBody создает тело с пустым следом
func NewBody(id string, kind Kind, mass, radius float64, pos, vel Vec3) *Body {
	return &Body{
		ID:       id,
		Kind:     kind,
		Mass:     mass,
		Radius:   radius,
		Position: pos,
		Velocity: vel,
		Color:    kind.DefaultColor(),
		trail:    NewTrail(kind.TrailLength()),
	}
}

// MarkForRemoval помечает тело на удаление при ближайшей очистке мира
func (b *Body) MarkForRemoval() {
	b.markedForRemoval = true
}

// IsMarkedForRemoval помечено ли тело на удаление
func (b *Body) IsMarkedForRemoval() bool {
	return b.markedForRemoval
}

// Trail история позиций тела
func (b *Body) Trail() *Trail {
	if b.trail == nil {
		b.trail = NewTrail(b.Kind.TrailLength())
	}
	return b.trail
}

// Momentum импульс тела m·v
func (b *Body) Momentum() Vec3 {
	return b.Velocity.Mul(b.Mass)
}

// AccelerationFrom суммарное гравитационное ускорение от остальных тел.
//
// Кометы и тела с неконечной позицией не притягивают. Нулевое расстояние и
// вклад, переполняющий float64, пропускаются как сингулярность. Если тело оказалось
// внутри радиуса Шварцшильда черной дыры, оно помечается на удаление и сразу
// возвращается нулевое ускорение: вклады еще не просмотренных тел теряются.
func (b *Body) AccelerationFrom(bodies []*Body) Vec3 {
	var acc Vec3
	for _, other := range bodies {
		if other == b || other.Kind == KindComet || !IsFinite(other.Position) {
			continue
		}

		dir, dist := Direction(b.Position, other.Position)
		if dist == 0 {
			continue
		}

		if other.Kind == KindBlackHole && dist < SchwarzschildRadius(other.Mass) {
			b.MarkForRemoval()
			return Vec3{}
		}

		magnitude := G * other.Mass / (dist * dist)
		if math.IsInf(magnitude, 0) || math.IsNaN(magnitude) {
			continue
		}
		acc = acc.Add(dir.Mul(magnitude))
	}
	return acc
}

// Integrate полунеявный шаг Эйлера: сначала скорость, затем позиция по новой скорости
func (b *Body) Integrate(dt float64) {
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Trail().Push(b.Position)
}

// Update вычисляет ускорение и продвигает тело на dt. Помеченные тела не обновляются.
//
// Возвращает false, если ускорение или новое состояние неконечны. Такое тело
// помечается сразу, до того как его состояние прочитают следующие тела.
func (b *Body) Update(dt float64, bodies []*Body) (stable bool) {
	if b.markedForRemoval {
		return true
	}
	acc := b.AccelerationFrom(bodies)
	if b.markedForRemoval {
		return true
	}
	if !IsFinite(acc) {
		b.markedForRemoval = true
		return false
	}
	b.Acceleration = acc
	b.Integrate(dt)
	if !IsFinite(b.Position) || !IsFinite(b.Velocity) {
		b.markedForRemoval = true
		return false
	}
	return true
}
