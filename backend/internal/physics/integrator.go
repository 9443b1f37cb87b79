package physics

// IntegrationResult итог фазы интегрирования
type IntegrationResult struct {
	// Captured тела, упавшие за горизонт событий черной дыры
	Captured []*Body
	// Unstable тела с неконечной позицией или скоростью
	Unstable []*Body
}

// IntegrateAll продвигает все тела на dt.
//
// Тела обновляются последовательно в порядке среза, каждое против полного
// набора тел, так что более поздние видят уже сдвинутые позиции ранних.
// Тело с неконечным состоянием помечается на удаление в момент своего
// обновления и попадает в Unstable, остальные его не учитывают.
func IntegrateAll(bodies []*Body, dt float64) IntegrationResult {
	var result IntegrationResult

	for _, b := range bodies {
		if b.IsMarkedForRemoval() {
			continue
		}
		stable := b.Update(dt, bodies)
		switch {
		case !stable:
			result.Unstable = append(result.Unstable, b)
		case b.IsMarkedForRemoval():
			result.Captured = append(result.Captured, b)
		}
	}
	return result
}
