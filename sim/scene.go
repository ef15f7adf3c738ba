package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/squid/components"
)

// LayerView is a read-only snapshot of one renderable layer.
type LayerView struct {
	Kind      components.LayerKind
	Transform components.Transform
	Points    []components.ParticlePoint
	Deformed  []mgl32.Vec3 // nil for layers drawn at their base positions
	Lifetime  float32
}

// Scene holds every renderable point set as an entity.
type Scene struct {
	world *ecs.World

	layerMapper  *ecs.Map2[components.Transform, components.Layer]
	deformMapper *ecs.Map3[components.Transform, components.Layer, components.Deformable]
	layerFilter  *ecs.Filter2[components.Transform, components.Layer]
	deformFilter *ecs.Filter3[components.Transform, components.Layer, components.Deformable]

	transformMap *ecs.Map[components.Transform]
	deformMap    *ecs.Map[components.Deformable]

	entities map[components.LayerKind]ecs.Entity
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:        world,
		layerMapper:  ecs.NewMap2[components.Transform, components.Layer](world),
		deformMapper: ecs.NewMap3[components.Transform, components.Layer, components.Deformable](world),
		layerFilter:  ecs.NewFilter2[components.Transform, components.Layer](world),
		deformFilter: ecs.NewFilter3[components.Transform, components.Layer, components.Deformable](world),
		transformMap: ecs.NewMap[components.Transform](world),
		deformMap:    ecs.NewMap[components.Deformable](world),
		entities:     make(map[components.LayerKind]ecs.Entity),
	}
}

// AddLayer adds a point set drawn at its base positions.
func (s *Scene) AddLayer(kind components.LayerKind, points []components.ParticlePoint, lifetime float32) ecs.Entity {
	t := components.Transform{Orientation: mgl32.QuatIdent()}
	l := components.Layer{Kind: kind, Points: points, Lifetime: lifetime}
	e := s.layerMapper.NewEntity(&t, &l)
	s.entities[kind] = e
	return e
}

// AddDeformable adds a point set displaced by the deformation engine every tick.
func (s *Scene) AddDeformable(kind components.LayerKind, points []components.ParticlePoint) ecs.Entity {
	t := components.Transform{Orientation: mgl32.QuatIdent()}
	l := components.Layer{Kind: kind, Points: points}
	d := components.Deformable{Deformed: make([]mgl32.Vec3, len(points))}
	for i := range points {
		d.Deformed[i] = points[i].Position
	}
	e := s.deformMapper.NewEntity(&t, &l, &d)
	s.entities[kind] = e
	return e
}

// SetTransform moves a layer. Unknown kinds are ignored.
func (s *Scene) SetTransform(kind components.LayerKind, t components.Transform) {
	e, ok := s.entities[kind]
	if !ok {
		return
	}
	*s.transformMap.Get(e) = t
}

// Transform returns a layer's transform.
func (s *Scene) Transform(kind components.LayerKind) (components.Transform, bool) {
	e, ok := s.entities[kind]
	if !ok {
		return components.Transform{}, false
	}
	return *s.transformMap.Get(e), true
}

// EachDeformable calls fn for every deformable layer.
func (s *Scene) EachDeformable(fn func(l *components.Layer, d *components.Deformable)) {
	query := s.deformFilter.Query()
	for query.Next() {
		_, l, d := query.Get()
		fn(l, d)
	}
}

// Views appends a snapshot of every layer to dst, ordered by kind.
func (s *Scene) Views(dst []LayerView) []LayerView {
	dst = dst[:0]
	query := s.layerFilter.Query()
	for query.Next() {
		entity := query.Entity()
		t, l := query.Get()

		v := LayerView{
			Kind:      l.Kind,
			Transform: *t,
			Points:    l.Points,
			Lifetime:  l.Lifetime,
		}
		if s.deformMap.Has(entity) {
			v.Deformed = s.deformMap.Get(entity).Deformed
		}
		dst = append(dst, v)
	}
	sort.Slice(dst, func(i, j int) bool { return dst[i].Kind < dst[j].Kind })
	return dst
}

// Len returns the number of layers.
func (s *Scene) Len() int {
	return len(s.entities)
}

// Clear removes every layer and drops references to point buffers.
func (s *Scene) Clear() {
	for kind, e := range s.entities {
		s.world.RemoveEntity(e)
		delete(s.entities, kind)
	}
}
