package voxbody

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// IDGenerator hands out body ids. It is owned by whoever builds the Simulation.
type IDGenerator func() BodyID

func UUIDGenerator() BodyID {
	return BodyID(uuid.NewString())
}

type SimulationOptions struct {
	// Workers > 1 steps bodies in parallel. Collision hooks then run
	// concurrently and must route terrain edits through Defer.
	Workers      int
	WakeCellSize float32
	IDs          IDGenerator
	Logger       Logger
}

// Simulation owns a set of bodies sharing one terrain and steps them once per tick.
type Simulation struct {
	world  Terrain
	opts   SimulationOptions
	logger Logger

	bodies map[BodyID]*RigidBody
	order  []BodyID
	grid   *SpatialHashGrid

	removeHandlers []func(*RigidBody)

	deferMu  sync.Mutex
	deferred []func()

	tick uint64
}

type TickStats struct {
	Tick      uint64
	Simulated int
	Sleeping  int
	Contacts  int
	Removed   int
}

// BodySnapshot is a read-only copy of a body's observable state.
type BodySnapshot struct {
	ID       BodyID
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Box      AABB
	Sleeping bool
	InLiquid bool
	Liquid   LiquidKind
}

func NewSimulation(world Terrain, opts SimulationOptions) *Simulation {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator
	}
	if opts.Logger == nil {
		opts.Logger = NewNopLogger()
	}
	return &Simulation{
		world:  world,
		opts:   opts,
		logger: opts.Logger,
		bodies: make(map[BodyID]*RigidBody),
		grid:   NewSpatialHashGrid(opts.WakeCellSize),
	}
}

// NewSimulationFromConfig applies the simulation section of cfg.
func NewSimulationFromConfig(cfg Config, world Terrain, logger Logger) *Simulation {
	return NewSimulation(world, SimulationOptions{
		Workers:      cfg.Simulation.Workers,
		WakeCellSize: cfg.Simulation.WakeCellSize,
		Logger:       logger,
	})
}

func (s *Simulation) World() Terrain { return s.world }

func (s *Simulation) CurrentTick() uint64 { return s.tick }

// Spawn builds a body with a generated id and adds it.
func (s *Simulation) Spawn(cfg BodyConfig) (*RigidBody, error) {
	body, err := NewRigidBody(s.opts.IDs(), cfg)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	if err := s.Add(body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Simulation) Add(body *RigidBody) error {
	if _, ok := s.bodies[body.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, body.ID())
	}
	s.bodies[body.ID()] = body
	s.order = append(s.order, body.ID())
	s.grid.Insert(body.ID(), body.BoundingBox())

	body.OnDestroy(func(b *RigidBody) {
		s.logger.Debugf("body %s left the world at %v", b.ID(), b.Position())
	})
	s.logger.Debugf("body %s added at %v", body.ID(), body.Position())
	return nil
}

func (s *Simulation) Get(id BodyID) (*RigidBody, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

// Bodies returns the live bodies in insertion order.
func (s *Simulation) Bodies() []*RigidBody {
	out := make([]*RigidBody, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bodies[id])
	}
	return out
}

func (s *Simulation) Len() int { return len(s.bodies) }

// OnRemove registers fn to run whenever a body leaves the simulation, either
// through Remove or because it died.
func (s *Simulation) OnRemove(fn func(*RigidBody)) {
	s.removeHandlers = append(s.removeHandlers, fn)
}

func (s *Simulation) Remove(id BodyID) bool {
	body, ok := s.bodies[id]
	if !ok {
		return false
	}
	delete(s.bodies, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, fn := range s.removeHandlers {
		fn(body)
	}
	return true
}

// Defer queues fn to run after every body has stepped in the current tick.
// Collision hooks use it for terrain edits. Safe for concurrent use.
func (s *Simulation) Defer(fn func()) {
	s.deferMu.Lock()
	s.deferred = append(s.deferred, fn)
	s.deferMu.Unlock()
}

func (s *Simulation) flushDeferred() {
	s.deferMu.Lock()
	pending := s.deferred
	s.deferred = nil
	s.deferMu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// Tick steps every body once, removes the ones that died, runs deferred work
// and refreshes the wake broadphase.
func (s *Simulation) Tick(dt float32) TickStats {
	bodies := s.Bodies()
	results := make([]StepResult, len(bodies))

	if s.opts.Workers > 1 && len(bodies) > 1 {
		var g errgroup.Group
		g.SetLimit(s.opts.Workers)
		for i, b := range bodies {
			i, b := i, b
			g.Go(func() error {
				results[i] = b.Step(s.world, dt)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, b := range bodies {
			results[i] = b.Step(s.world, dt)
		}
	}

	s.tick++
	stats := TickStats{Tick: s.tick}
	for i, b := range bodies {
		r := results[i]
		if r.Simulated {
			stats.Simulated++
		}
		if b.IsSleeping() {
			stats.Sleeping++
		}
		stats.Contacts += r.Contacts
		if r.Died {
			s.Remove(b.ID())
			stats.Removed++
		}
	}

	s.flushDeferred()

	s.grid.Clear()
	for _, id := range s.order {
		s.grid.Insert(id, s.bodies[id].BoundingBox())
	}

	if s.logger.DebugEnabled() {
		s.logger.Debugf("tick %d: %d bodies, %d simulated, %d sleeping, %d contacts, %d removed",
			stats.Tick, len(s.bodies), stats.Simulated, stats.Sleeping, stats.Contacts, stats.Removed)
	}
	return stats
}

// Bodies resting on an edited surface sit just outside it; this margin catches them.
const terrainWakeMargin = 1

// TerrainModified wakes every body within terrainWakeMargin of region for one
// full step. It returns the number of bodies notified.
func (s *Simulation) TerrainModified(region AABB) int {
	region = region.Expand(terrainWakeMargin)
	woken := 0
	for _, id := range s.grid.QueryAABB(region) {
		b, ok := s.bodies[id]
		if !ok || !b.BoundingBox().Intersects(region) {
			continue
		}
		b.NotifyTerrainModified()
		woken++
	}
	if woken > 0 {
		s.logger.Debugf("terrain modified in %v, woke %d bodies", region, woken)
	}
	return woken
}

// ModifiedRegions is implemented by terrains that track their own edits, such as VoxelWorld.
type ModifiedRegions interface {
	FlushModified() []AABB
}

// SyncTerrain drains the edits recorded by world and wakes the bodies near them.
func (s *Simulation) SyncTerrain(world ModifiedRegions) int {
	woken := 0
	for _, region := range world.FlushModified() {
		woken += s.TerrainModified(region)
	}
	return woken
}

func (s *Simulation) Snapshots() []BodySnapshot {
	out := make([]BodySnapshot, 0, len(s.order))
	for _, id := range s.order {
		b := s.bodies[id]
		out = append(out, BodySnapshot{
			ID:       b.ID(),
			Position: b.Position(),
			Velocity: b.Velocity(),
			Box:      b.BoundingBox(),
			Sleeping: b.IsSleeping(),
			InLiquid: b.IsInLiquid(),
			Liquid:   b.LiquidKind(),
		})
	}
	return out
}
