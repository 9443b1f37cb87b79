package physics

import (
	"fmt"
	"math"
)

// stubRand детерминированный источник случайности для тестов
type stubRand struct {
	intN int
	f    float64
}

func (r *stubRand) IntN(n int) int {
	if r.intN >= n {
		return n - 1
	}
	return r.intN
}

func (r *stubRand) Float64() float64 {
	return r.f
}

// recordingSpawner собирает отложенные тела
type recordingSpawner struct {
	deferred []*Body
	seq      int
}

func (s *recordingSpawner) Defer(body *Body) {
	s.deferred = append(s.deferred, body)
}

func (s *recordingSpawner) NextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vecAlmostEqual(a, b Vec3, eps float64) bool {
	return almostEqual(a.X(), b.X(), eps) && almostEqual(a.Y(), b.Y(), eps) && almostEqual(a.Z(), b.Z(), eps)
}

func bodyIDsOf(bodies []*Body) []string {
	ids := make([]string, 0, len(bodies))
	for _, b := range bodies {
		ids = append(ids, b.ID)
	}
	return ids
}
