package physics

// Outcome результат столкновения двух тел
type Outcome string

const (
	OutcomeNone        Outcome = "none"
	OutcomeAbsorbed    Outcome = "absorbed"
	OutcomeShattered   Outcome = "shattered"
	OutcomeConsumed    Outcome = "consumed"
	OutcomeAnnihilated Outcome = "annihilated"
	OutcomeMerged      Outcome = "merged"
)

// Resolution решение правила для упорядоченной пары (a, b)
type Resolution struct {
	Rule    string
	Outcome Outcome
	RemoveA bool
	RemoveB bool
	Merge   bool
	// Highlight тело, на котором клиент может показать эффект поглощения
	HighlightA bool
	HighlightB bool
}

// Matched сработало ли какое-либо правило
func (r Resolution) Matched() bool {
	return r.Outcome != OutcomeNone
}

// InteractionRule одно правило таблицы взаимодействий
type InteractionRule struct {
	Name    string
	Outcome Outcome
	// Match проверяет пару и сообщает, какие из тел удаляются
	Match func(a, b Kind) (removeA, removeB, ok bool)
	Merge bool
}

// InteractionTable упорядоченный список правил: срабатывает первое подходящее
type InteractionTable struct {
	rules []InteractionRule
}

// NewInteractionTable создает таблицу с заданными правилами
func NewInteractionTable(rules ...InteractionRule) *InteractionTable {
	return &InteractionTable{rules: rules}
}

// DefaultInteractionTable стандартный порядок приоритетов столкновений
func DefaultInteractionTable() *InteractionTable {
	return NewInteractionTable(
		InteractionRule{
			Name:    "black-hole-absorbs",
			Outcome: OutcomeAbsorbed,
			Match: func(a, b Kind) (bool, bool, bool) {
				switch {
				case a == KindBlackHole:
					return false, true, true
				case b == KindBlackHole:
					return true, false, true
				}
				return false, false, false
			},
		},
		InteractionRule{
			Name:    "meteor-shatters",
			Outcome: OutcomeShattered,
			Match: func(a, b Kind) (bool, bool, bool) {
				// два метеора: разрушается только a, более позднее тело в обходе
				if a.IsMeteorLike() {
					return true, false, true
				}
				return false, true, b.IsMeteorLike()
			},
		},
		InteractionRule{
			Name:    "white-dwarf-consumes",
			Outcome: OutcomeConsumed,
			Match: func(a, b Kind) (bool, bool, bool) {
				switch {
				case a == KindWhiteDwarf && b.IsTidallyDisruptable():
					return false, true, true
				case b == KindWhiteDwarf && a.IsTidallyDisruptable():
					return true, false, true
				}
				return false, false, false
			},
		},
		InteractionRule{
			Name:    "neutron-star-annihilates",
			Outcome: OutcomeAnnihilated,
			Match: func(a, b Kind) (bool, bool, bool) {
				ok := a == KindNeutronStar || b == KindNeutronStar
				return ok, ok, ok
			},
		},
		InteractionRule{
			Name:    "planets-merge",
			Outcome: OutcomeMerged,
			Merge:   true,
			Match: func(a, b Kind) (bool, bool, bool) {
				ok := a.IsPlanetLike() && b.IsPlanetLike()
				return ok, ok, ok
			},
		},
	)
}

// Rules копия правил в порядке приоритета
func (t *InteractionTable) Rules() []InteractionRule {
	out := make([]InteractionRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Resolve применяет первое подходящее правило к паре типов
func (t *InteractionTable) Resolve(a, b Kind) Resolution {
	for _, rule := range t.rules {
		removeA, removeB, ok := rule.Match(a, b)
		if !ok {
			continue
		}
		res := Resolution{
			Rule:    rule.Name,
			Outcome: rule.Outcome,
			RemoveA: removeA,
			RemoveB: removeB,
			Merge:   rule.Merge,
		}
		if rule.Outcome == OutcomeAbsorbed {
			res.HighlightA = removeA
			res.HighlightB = removeB
		}
		return res
	}
	return Resolution{Outcome: OutcomeNone}
}
