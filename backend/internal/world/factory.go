package world

import (
	"log"
	"math"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/physics"
)

// Радиус нейтронной звезды по умолчанию: 10 км
const neutronStarRadiusMeters = 10e3

// Радиусы по умолчанию, АЕ
var defaultRadii = map[physics.Kind]float64{
	physics.KindMeteor:       1e-6,
	physics.KindWhiteDwarf:   1e-5,
	physics.KindMergedPlanet: 4.26e-5,
	physics.KindComet:        1e-5,
}

// Factory создает тела из внешних запросов
type Factory struct {
	manager *Manager
	logger  *log.Logger
}

// NewFactory создает новый экземпляр Factory
func NewFactory(manager *Manager, logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{
		manager: manager,
		logger:  logger,
	}
}

// Validate проверяет запрос, не изменяя мир
func (f *Factory) Validate(req CreationRequest) (physics.Kind, error) {
	kind, err := physics.ParseKind(req.Kind)
	if err != nil {
		return "", apperrors.WrapInvalidParameter("invalid kind", err)
	}
	if !finite(req.Mass) || req.Mass <= 0 {
		return "", apperrors.InvalidParameterf("mass must be positive and finite, got %g", req.Mass)
	}
	if !finite(req.Radius) || req.Radius < 0 {
		return "", apperrors.InvalidParameterf("radius must be non-negative and finite, got %g", req.Radius)
	}
	if !physics.IsFinite(req.Position.Vec()) {
		return "", apperrors.InvalidParameterf("position must be finite")
	}
	if !physics.IsFinite(req.Velocity.Vec()) {
		return "", apperrors.InvalidParameterf("velocity must be finite")
	}
	if req.Name != "" {
		if _, exists := f.manager.Find(req.Name); exists {
			return "", apperrors.Conflictf("body %q already exists", req.Name)
		}
	}
	return kind, nil
}

// Build проверяет запрос и строит тело, не добавляя его в мир
func (f *Factory) Build(req CreationRequest) (*physics.Body, error) {
	kind, err := f.Validate(req)
	if err != nil {
		return nil, err
	}

	id := req.Name
	if id == "" {
		id = f.manager.NextID(kind.String())
	}

	body := physics.NewBody(id, kind, req.Mass, resolveRadius(kind, req.Mass, req.Radius),
		req.Position.Vec(), req.Velocity.Vec())
	// планеты и спутники всегда получают опорную орбиту
	body.OrbitReference = req.OrbitReference || kind == physics.KindPlanet || kind == physics.KindMoon
	if req.Color != "" {
		body.Color = req.Color
	}
	return body, nil
}

// Create строит тело и сразу добавляет его в мир
func (f *Factory) Create(req CreationRequest) (*physics.Body, error) {
	body, err := f.Build(req)
	if err != nil {
		return nil, err
	}

	f.manager.Add(body)
	f.logger.Printf("[World] created %s %s at (%.4f, %.4f, %.4f) AU, mass %.3e M☉",
		body.Kind, body.ID, body.Position.X(), body.Position.Y(), body.Position.Z(), body.Mass)
	return body, nil
}

// resolveRadius радиус по умолчанию, если в запросе 0
func resolveRadius(kind physics.Kind, mass, radius float64) float64 {
	if radius > 0 {
		return radius
	}
	switch kind {
	case physics.KindBlackHole:
		return physics.SchwarzschildRadius(mass)
	case physics.KindNeutronStar:
		return neutronStarRadiusMeters / physics.AstronomicalUnitMeters
	}
	return defaultRadii[kind]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
