package world

import (
	"fmt"
	"sync"

	"orbital-sim/backend/internal/physics"
)

// Manager владеет коллекцией тел мира.
//
// Тела хранятся в порядке добавления. Кометы дополнительно учитываются в
// отдельном подсписке. Удаление выполняется только через пометку и один
// проход Purge за тик, тела из середины фазы копятся в буфере до Flush.
type Manager struct {
	bodies   []*physics.Body
	comets   []*physics.Body
	pending  []*physics.Body
	sequence map[string]int
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		bodies:   make([]*physics.Body, 0),
		comets:   make([]*physics.Body, 0),
		sequence: make(map[string]int),
	}
}

// Add добавляет тело сразу. Используется между тиками.
func (m *Manager) Add(body *physics.Body) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(body)
}

func (m *Manager) addLocked(body *physics.Body) {
	m.bodies = append(m.bodies, body)
	if body.Kind == physics.KindComet {
		m.comets = append(m.comets, body)
	}
}

// Defer откладывает добавление тела до Flush
func (m *Manager) Defer(body *physics.Body) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, body)
}

// Flush добавляет отложенные тела в мир и возвращает их
func (m *Manager) Flush() []*physics.Body {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := m.pending
	for _, body := range added {
		m.addLocked(body)
	}
	m.pending = nil
	return added
}

// PendingCount количество отложенных тел
func (m *Manager) PendingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pending)
}

// MarkForRemoval помечает тело на удаление
func (m *Manager) MarkForRemoval(body *physics.Body) {
	body.MarkForRemoval()
}

// Purge удаляет все помеченные тела одним проходом с конца списка
func (m *Manager) Purge() []*physics.Body {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []*physics.Body
	for i := len(m.bodies) - 1; i >= 0; i-- {
		if !m.bodies[i].IsMarkedForRemoval() {
			continue
		}
		removed = append(removed, m.bodies[i])
		m.bodies = append(m.bodies[:i], m.bodies[i+1:]...)
	}

	for i := len(m.comets) - 1; i >= 0; i-- {
		if m.comets[i].IsMarkedForRemoval() {
			m.comets = append(m.comets[:i], m.comets[i+1:]...)
		}
	}
	return removed
}

// DropComet убирает комету из подсписка комет, не трогая основной список
func (m *Manager) DropComet(comet *physics.Body) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.comets) - 1; i >= 0; i-- {
		if m.comets[i] == comet {
			m.comets = append(m.comets[:i], m.comets[i+1:]...)
		}
	}
}

// ClearComets помечает все кометы на удаление и очищает подсписок
func (m *Manager) ClearComets() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.comets)
	for _, c := range m.comets {
		c.MarkForRemoval()
	}
	m.comets = m.comets[:0]
	return count
}

// NextID уникальный идентификатор вида prefix-N
func (m *Manager) NextID(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		m.sequence[prefix]++
		id := fmt.Sprintf("%s-%d", prefix, m.sequence[prefix])
		if m.findLocked(id) == nil {
			return id
		}
	}
}

// Find ищет тело по идентификатору
func (m *Manager) Find(id string) (*physics.Body, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body := m.findLocked(id)
	return body, body != nil
}

func (m *Manager) findLocked(id string) *physics.Body {
	for _, b := range m.bodies {
		if b.ID == id {
			return b
		}
	}
	for _, b := range m.pending {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Bodies живой срез тел для фаз тика. Срез не должен изменяться вызывающим.
func (m *Manager) Bodies() []*physics.Body {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bodies
}

// Comets копия подсписка комет
func (m *Manager) Comets() []*physics.Body {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*physics.Body, len(m.comets))
	copy(result, m.comets)
	return result
}

// Count количество тел в мире
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bodies)
}

// Snapshot копия состояния всех тел
func (m *Manager) Snapshot() []BodySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]BodySnapshot, 0, len(m.bodies))
	for _, b := range m.bodies {
		result = append(result, SnapshotOf(b))
	}
	return result
}

// CountByKind количество тел каждого типа
func (m *Manager) CountByKind() map[physics.Kind]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[physics.Kind]int)
	for _, b := range m.bodies {
		counts[b.Kind]++
	}
	return counts
}

// Reset удаляет все тела, буфер и счетчики идентификаторов
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bodies = make([]*physics.Body, 0)
	m.comets = make([]*physics.Body, 0)
	m.pending = nil
	m.sequence = make(map[string]int)
}
