package physics

// CollisionEvent описание одного разрешенного столкновения
type CollisionEvent struct {
	A       *Body
	B       *Body
	Rule    string
	Outcome Outcome
	Removed []*Body
	// Highlighted тела, для которых клиент показывает эффект поглощения
	Highlighted []*Body
	// Merged новое тело, если пара слилась
	Merged *Body
}

// Overlapping пересекаются ли сферы двух тел
func Overlapping(a, b *Body) bool {
	return a.Position.Sub(b.Position).Len() < a.Radius+b.Radius
}

// CollisionEngine попарное обнаружение и разрешение столкновений
type CollisionEngine struct {
	table *InteractionTable
}

// NewCollisionEngine создает движок столкновений. nil таблица заменяется стандартной.
func NewCollisionEngine(table *InteractionTable) *CollisionEngine {
	if table == nil {
		table = DefaultInteractionTable()
	}
	return &CollisionEngine{table: table}
}

// Table таблица взаимодействий движка
func (e *CollisionEngine) Table() *InteractionTable {
	return e.table
}

// Resolve проверяет каждую неупорядоченную пару ровно один раз.
//
// Обход идет с конца среза: a = bodies[i], b = bodies[j], j < i. Поэтому при
// встрече двух метеоров разрушается более поздний. Пары, где хотя бы одно тело
// уже помечено, пропускаются. Для пересекающейся
// пары применяется первое подходящее правило таблицы. Слитые тела передаются
// в spawner и не участвуют в текущем проходе.
func (e *CollisionEngine) Resolve(bodies []*Body, spawner Spawner) []CollisionEvent {
	var events []CollisionEvent

	for i := len(bodies) - 1; i >= 0; i-- {
		for j := i - 1; j >= 0; j-- {
			a, b := bodies[i], bodies[j]
			if a.IsMarkedForRemoval() {
				break
			}
			if b.IsMarkedForRemoval() || !Overlapping(a, b) {
				continue
			}

			res := e.table.Resolve(a.Kind, b.Kind)
			if !res.Matched() {
				continue
			}

			event := CollisionEvent{A: a, B: b, Rule: res.Rule, Outcome: res.Outcome}

			if res.Merge {
				event.Merged = Merge(a, b, spawner.NextID(string(KindMergedPlanet)))
				event.Removed = []*Body{a, b}
				spawner.Defer(event.Merged)
				events = append(events, event)
				continue
			}

			if res.RemoveA {
				a.MarkForRemoval()
				event.Removed = append(event.Removed, a)
			}
			if res.RemoveB {
				b.MarkForRemoval()
				event.Removed = append(event.Removed, b)
			}
			if res.HighlightA {
				event.Highlighted = append(event.Highlighted, a)
			}
			if res.HighlightB {
				event.Highlighted = append(event.Highlighted, b)
			}
			events = append(events, event)
		}
	}
	return events
}
