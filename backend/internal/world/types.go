package world

import "orbital-sim/backend/internal/physics"

// Vector3 вектор в формате для внешних потребителей (JSON)
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FromVec конвертирует вектор физики
func FromVec(v physics.Vec3) Vector3 {
	return Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Vec конвертирует в вектор физики
func (v Vector3) Vec() physics.Vec3 {
	return physics.Vec3{v.X, v.Y, v.Z}
}

// CreationRequest запрос на создание тела извне (пользователь, API)
type CreationRequest struct {
	Name     string  `json:"name,omitempty"`
	Kind     string  `json:"kind"`
	Mass     float64 `json:"mass"`             // M☉
	Radius   float64 `json:"radius,omitempty"` // АЕ, 0 означает значение по умолчанию для типа
	Position Vector3 `json:"position"`
	Velocity Vector3 `json:"velocity"`
	Color    string  `json:"color,omitempty"`

	OrbitReference bool `json:"orbit_reference,omitempty"`
}

// BodySnapshot состояние тела для отрисовки и инспекции
type BodySnapshot struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	Mass             float64 `json:"mass"`
	Radius           float64 `json:"radius"`
	Position         Vector3 `json:"position"`
	Velocity         Vector3 `json:"velocity"`
	MarkedForRemoval bool    `json:"marked_for_removal"`
	TrailLength      int     `json:"trail_length"`
	Color            string  `json:"color,omitempty"`
}

// SnapshotOf снимок состояния тела
func SnapshotOf(b *physics.Body) BodySnapshot {
	return BodySnapshot{
		ID:               b.ID,
		Kind:             b.Kind.String(),
		Mass:             b.Mass,
		Radius:           b.Radius,
		Position:         FromVec(b.Position),
		Velocity:         FromVec(b.Velocity),
		MarkedForRemoval: b.IsMarkedForRemoval(),
		TrailLength:      b.Trail().Len(),
		Color:            b.Color,
	}
}
