// Package sim wires the systems into a single cooperative tick.
//
// A Simulation owns every piece of mutable state: steering, emitters, the
// click pulse and the scene of point layers. The host calls Tick once per
// frame and reads the results back; nothing runs between ticks.
package sim

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/squid/camera"
	"github.com/pthm-cable/squid/components"
	"github.com/pthm-cable/squid/config"
	"github.com/pthm-cable/squid/geometry"
	"github.com/pthm-cable/squid/systems"
	"github.com/pthm-cable/squid/telemetry"
)

// ambientDriftAmplitude is how far ambient points wander from their base, in world units.
const ambientDriftAmplitude = 1.5

// Input is the host's pointer state for one tick.
type Input struct {
	Pointer components.InteractionSignal
	Click   bool // a primary click happened this tick
}

// FrameUniforms are the per-frame scalars consumed by the renderer and audio.
type FrameUniforms struct {
	Time       float32
	Speed      float32
	Hover      float32
	Turn       float32
	Agitation  float32
	Glow       float32
	ClickPulse float32
	ClickColor mgl32.Vec3
	Mode       components.SteeringMode
	Following  bool
}

// TickReport summarizes the events of the last tick for telemetry.
type TickReport struct {
	Frame          FrameUniforms
	TrailEmitted   int
	BubblesEmitted int
	BurstStarted   bool
	Clicked        bool
	Hit            bool
	DoubleClick    bool
}

// Options control construction.
type Options struct {
	// Seed for geometry and behaviour randomness. Zero seeds from the clock.
	Seed int64
	// Workers for the deformation pool. Zero uses GOMAXPROCS.
	Workers int
}

// Simulation is the squid and its surroundings.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	camera      *camera.Camera
	noise       *systems.NoiseField
	deformer    *systems.DeformationEngine
	steering    *systems.SteeringController
	trail       *systems.TrailEmitter
	bubbles     *systems.BubbleEmitter
	interaction *systems.InteractionLayer
	school      *systems.SchoolDrift
	ambient     *systems.AmbientDrift

	scene    *Scene
	creature []components.ParticlePoint
	pool     *workerPool
	perf     *telemetry.PerfCollector

	time           float32
	prevPointer    components.InteractionSignal // last active pointer, in NDC
	hasPrevPointer bool

	frame  FrameUniforms
	report TickReport
	views  []LayerView
	closed bool
}

// New builds the simulation: geometry is generated once here.
func New(cfg *config.Config, opts Options) *Simulation {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cam := camera.New(cfg.Camera, cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	noise := systems.NewNoiseField(cfg.Noise.Seed)

	s := &Simulation{
		cfg:         cfg,
		rng:         rng,
		camera:      cam,
		noise:       noise,
		deformer:    systems.NewDeformationEngine(noise),
		steering:    systems.NewSteeringController(systems.NewSteeringParams(cfg.Steering), cam, rng),
		trail:       systems.NewTrailEmitter(cfg.Trail, rng),
		bubbles:     systems.NewBubbleEmitter(cfg.Bubbles, rng),
		interaction: systems.NewInteractionLayer(cfg.Interaction, rng),
		school:      systems.NewSchoolDrift(cfg.School),
		ambient:     systems.NewAmbientDrift(int64(cfg.Noise.Seed), ambientDriftAmplitude),
		scene:       NewScene(),
		pool:        newWorkerPool(opts.Workers),
	}

	factory := geometry.NewFactory(cfg.Geometry, rng)
	s.creature = factory.Creature()

	s.scene.AddLayer(components.LayerAmbient, factory.Ambient(cfg.Geometry.AmbientPoints), 0)
	s.scene.AddLayer(components.LayerSchool, factory.School(cfg.Geometry.SchoolPoints), 0)
	s.scene.AddDeformable(components.LayerCreature, s.creature)
	s.scene.AddLayer(components.LayerTrail, s.trail.Points(), s.trail.Lifetime())
	s.scene.AddLayer(components.LayerBubbles, s.bubbles.Points(), s.bubbles.Lifetime())

	s.scene.SetTransform(components.LayerCreature, s.steering.Transform())
	s.scene.SetTransform(components.LayerSchool, s.school.Update(0, 0))

	slog.Info("simulation created",
		"seed", seed,
		"creature_points", len(s.creature),
		"ambient_points", cfg.Geometry.AmbientPoints,
		"school_points", cfg.Geometry.SchoolPoints,
		"trail_capacity", cfg.Trail.Capacity,
		"bubble_capacity", cfg.Bubbles.Capacity,
		"workers", s.pool.numWorkers,
	)
	return s
}

// SetPerf attaches a perf collector that receives per-phase timings.
// The host brackets each frame with StartTick and EndTick so that its own
// phases, such as rendering, land in the same sample.
func (s *Simulation) SetPerf(p *telemetry.PerfCollector) {
	s.perf = p
}

func (s *Simulation) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// Tick advances every system by dt seconds and returns the frame uniforms.
func (s *Simulation) Tick(dt float32, in Input) FrameUniforms {
	if s.closed {
		return s.frame
	}
	if dt < 0 {
		dt = 0
	}
	s.time += dt
	report := TickReport{}
	before := s.steering.State()

	// Pointer and clicks
	s.phase(telemetry.PhaseInteraction)
	if in.Click && in.Pointer.Active {
		ray := s.camera.Ray(in.Pointer.NDCX, in.Pointer.NDCY)
		hit, _ := systems.RayHit(ray, s.steering.Transform(), s.creature, s.interaction.HitRadius())
		report.Clicked = true
		report.Hit = hit
		report.DoubleClick = s.interaction.Click(s.time, hit)
	}
	s.interaction.Update(s.time, dt)

	var pointerWorld mgl32.Vec3
	if in.Pointer.Active {
		pointerWorld = s.camera.PointerTarget(in.Pointer.NDCX, in.Pointer.NDCY, before.Position)
	}

	// Locomotion
	s.phase(telemetry.PhaseSteering)
	s.steering.Update(systems.SteeringInput{
		DT:            dt,
		Pointer:       in.Pointer,
		PointerTarget: pointerWorld,
		FollowEnabled: s.interaction.Following(),
		Viewpoint:     s.camera.Eye,
		ViewDir:       s.camera.Forward(),
	})
	state := s.steering.State()
	anchor := s.steering.Transform()
	report.BurstStarted = state.BurstStarted

	// Streaming particles
	s.phase(telemetry.PhaseEmitters)
	report.TrailEmitted = s.trail.Update(anchor, s.time)
	if in.Pointer.Active {
		if s.hasPrevPointer {
			// Both ends on this tick's plane so creature depth changes add no stroke length
			from := s.camera.PointerTarget(s.prevPointer.NDCX, s.prevPointer.NDCY, before.Position)
			report.BubblesEmitted = s.bubbles.Update(from, pointerWorld, dt, s.time)
		}
		s.prevPointer = in.Pointer
		s.hasPrevPointer = true
	} else {
		s.hasPrevPointer = false
	}

	// Scene transforms
	s.phase(telemetry.PhaseDrift)
	s.scene.SetTransform(components.LayerCreature, anchor)
	s.scene.SetTransform(components.LayerSchool, s.school.Update(s.time, dt))

	// Deformation
	s.phase(telemetry.PhaseDeformation)
	pulse := s.interaction.Pulse()
	u := systems.Uniforms{
		Time:       s.time,
		Speed:      state.Speed,
		Hover:      state.HoverLevel,
		Turn:       state.Turn,
		ClickPulse: pulse.Value,
	}
	s.scene.EachDeformable(func(l *components.Layer, d *components.Deformable) {
		s.pool.run(len(l.Points), func(lo, hi int) {
			s.deformer.DeformRange(l.Points, d.Deformed, u, lo, hi)
		})
	})

	s.frame = FrameUniforms{
		Time:       s.time,
		Speed:      state.Speed,
		Hover:      state.HoverLevel,
		Turn:       state.Turn,
		Agitation:  u.Agitation(),
		Glow:       u.Glow(),
		ClickPulse: pulse.Value,
		ClickColor: pulse.Color,
		Mode:       state.Mode,
		Following:  s.interaction.Following(),
	}
	report.Frame = s.frame
	s.report = report
	return s.frame
}

// Resize updates the camera aspect. It has no effect on simulation state.
func (s *Simulation) Resize(width, height float32) {
	s.camera.Resize(width, height)
}

// SetFollowing forces follow mode on or off.
func (s *Simulation) SetFollowing(on bool) {
	s.interaction.SetFollowing(on)
}

// Following reports whether follow mode is enabled.
func (s *Simulation) Following() bool {
	return s.interaction.Following()
}

// Frame returns the uniforms from the last tick.
func (s *Simulation) Frame() FrameUniforms { return s.frame }

// Report returns the event summary of the last tick.
func (s *Simulation) Report() TickReport { return s.report }

// Time returns elapsed simulated seconds.
func (s *Simulation) Time() float32 { return s.time }

// Camera returns the scene camera.
func (s *Simulation) Camera() *camera.Camera { return s.camera }

// Steering returns a copy of the steering state.
func (s *Simulation) Steering() components.SteeringState { return s.steering.State() }

// Pulse returns the click pulse.
func (s *Simulation) Pulse() components.ClickPulse { return s.interaction.Pulse() }

// Trail returns the ink emitter.
func (s *Simulation) Trail() *systems.TrailEmitter { return s.trail }

// Bubbles returns the bubble emitter.
func (s *Simulation) Bubbles() *systems.BubbleEmitter { return s.bubbles }

// AmbientDrift returns the draw-time drift applied to the ambient layer.
func (s *Simulation) AmbientDrift() *systems.AmbientDrift { return s.ambient }

// Creature returns the base creature point cloud.
func (s *Simulation) Creature() []components.ParticlePoint { return s.creature }

// Layers returns a snapshot of every layer, ordered by kind.
// The returned slice is reused by the next call.
func (s *Simulation) Layers() []LayerView {
	s.views = s.scene.Views(s.views)
	return s.views
}

// Closed reports whether Close has been called.
func (s *Simulation) Closed() bool { return s.closed }

// Close stops the workers, clears the click pulse and releases buffers.
// Later ticks are no-ops.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.pool.stop()
	s.interaction.Reset()
	s.scene.Clear()
	s.creature = nil
	s.views = nil
	slog.Info("simulation closed", "time", s.time)
}

// Sample converts the report into a telemetry sample.
func (r TickReport) Sample() telemetry.FrameSample {
	return telemetry.FrameSample{
		Speed:          r.Frame.Speed,
		Hover:          r.Frame.Hover,
		Turn:           r.Frame.Turn,
		Agitation:      r.Frame.Agitation,
		Mode:           uint8(r.Frame.Mode),
		TrailEmitted:   r.TrailEmitted,
		BubblesEmitted: r.BubblesEmitted,
		BurstStarted:   r.BurstStarted,
		Clicked:        r.Clicked,
		Hit:            r.Hit,
		DoubleClick:    r.DoubleClick,
	}
}
