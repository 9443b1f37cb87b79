package physics

// Trail ограниченная история позиций тела (кольцевой буфер)
type Trail struct {
	points []Vec3
	next   int
	filled bool
}

// NewTrail создает след заданной емкости
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultTrailLength
	}
	return &Trail{points: make([]Vec3, capacity)}
}

// Push добавляет позицию, вытесняя самую старую при переполнении
func (t *Trail) Push(p Vec3) {
	t.points[t.next] = p
	t.next = (t.next + 1) % len(t.points)
	if !t.filled && t.next == 0 {
		t.filled = true
	}
}

// Len количество сохраненных точек
func (t *Trail) Len() int {
	if t.filled {
		return len(t.points)
	}
	return t.next
}

// Cap емкость следа
func (t *Trail) Cap() int {
	return len(t.points)
}

// Points копия точек от самой старой к самой новой
func (t *Trail) Points() []Vec3 {
	out := make([]Vec3, 0, t.Len())
	if t.filled {
		out = append(out, t.points[t.next:]...)
	}
	return append(out, t.points[:t.next]...)
}
