package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 3D вектор в астрономических единицах (или АЕ/год для скоростей)
type Vec3 = mgl64.Vec3

// PlanarDistance расстояние от начала координат в плоскости орбит (x, z)
func PlanarDistance(v Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

// IsFinite проверяет, что все компоненты вектора конечны
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Direction единичный вектор от from к to и расстояние между ними.
// При нулевом расстоянии возвращает нулевой вектор.
func Direction(from, to Vec3) (Vec3, float64) {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist == 0 {
		return Vec3{}, 0
	}
	return delta.Mul(1 / dist), dist
}

// RingPoint точка на окружности радиуса r вокруг center в плоскости орбит.
// Высота y всегда обнуляется.
func RingPoint(center Vec3, r, angle float64) Vec3 {
	return Vec3{
		center.X() + r*math.Cos(angle),
		0,
		center.Z() + r*math.Sin(angle),
	}
}
