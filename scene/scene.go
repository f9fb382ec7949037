// Package scene animates metaballs as ECS entities and keeps their field
// sources registered with a surface grid.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metaballs/config"
	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/surface"
)

// ErrNotAlive is returned when despawning an entity that no longer exists.
var ErrNotAlive = errors.New("entity is not alive")

// Options controls blob motion.
type Options struct {
	DriftSpeed float64 // Max noise acceleration
	DriftScale float64 // Noise frequency over time
	MaxSpeed   float64 // Velocity clamp, 0 disables
	Bounce     bool    // Reflect off Min/Max
	Min, Max   r2.Vec  // Scene bounds
}

// BlobSpec describes a blob to spawn.
type BlobSpec struct {
	Position r2.Vec
	Velocity r2.Vec
	Falloff  field.Falloff
}

// World owns the blob entities.
type World struct {
	world *ecs.World
	grid  *surface.Grid
	opts  Options
	noise opensimplex.Noise

	mapper  *ecs.Map3[Position, Velocity, Blob]
	filter  *ecs.Filter3[Position, Velocity, Blob]
	blobMap *ecs.Map1[Blob]

	time   float64
	spawns int
	count  int
}

// New creates an empty scene whose blobs feed grid.
func New(grid *surface.Grid, seed int64, opts Options) *World {
	world := ecs.NewWorld()
	return &World{
		world:   world,
		grid:    grid,
		opts:    opts,
		noise:   opensimplex.New(seed),
		mapper:  ecs.NewMap3[Position, Velocity, Blob](world),
		filter:  ecs.NewFilter3[Position, Velocity, Blob](world),
		blobMap: ecs.NewMap1[Blob](world),
	}
}

// FromConfig creates a scene and spawns the configured sources.
func FromConfig(grid *surface.Grid, cfg *config.Config) (*World, error) {
	sc := cfg.Scene
	w := New(grid, sc.Seed, Options{
		DriftSpeed: sc.DriftSpeed,
		DriftScale: sc.DriftScale,
		MaxSpeed:   sc.MaxSpeed,
		Bounce:     sc.Bounce,
		Min:        cfg.Derived.BoundsMin,
		Max:        cfg.Derived.BoundsMax,
	})
	for i, src := range sc.Sources {
		f, err := src.Falloff()
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		if _, err := w.Spawn(BlobSpec{Position: src.Position(), Velocity: src.Velocity(), Falloff: f}); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
	}
	slog.Info("scene ready", "blobs", w.count, "seed", sc.Seed)
	return w, nil
}

// Spawn creates a blob entity and registers its source with the grid.
func (w *World) Spawn(spec BlobSpec) (ecs.Entity, error) {
	src, err := field.NewSphere(spec.Position, spec.Falloff)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("spawning blob: %w", err)
	}

	pos := Position{X: spec.Position.X, Y: spec.Position.Y}
	vel := Velocity{X: spec.Velocity.X, Y: spec.Velocity.Y}
	blob := Blob{Source: src, Phase: float64(w.spawns) * 17.3}
	w.spawns++

	entity := w.mapper.NewEntity(&pos, &vel, &blob)
	w.grid.AddSource(src)
	w.count++
	return entity, nil
}

// Despawn deregisters the blob's source and removes the entity.
func (w *World) Despawn(e ecs.Entity) error {
	if !w.world.Alive(e) {
		return ErrNotAlive
	}
	blob := w.blobMap.Get(e)
	w.grid.RemoveSource(blob.Source)
	w.world.RemoveEntity(e)
	w.count--
	return nil
}

// Len returns the number of live blobs.
func (w *World) Len() int { return w.count }

// Alive reports whether e is a live blob.
func (w *World) Alive(e ecs.Entity) bool { return w.world.Alive(e) }

// Time returns the accumulated scene time.
func (w *World) Time() float64 { return w.time }

// Step advances blob motion by dt seconds and moves their sources.
func (w *World) Step(dt float64) {
	w.time += dt
	t := w.time * w.opts.DriftScale

	query := w.filter.Query()
	for query.Next() {
		pos, vel, blob := query.Get()

		if w.opts.DriftSpeed != 0 {
			vel.X += w.opts.DriftSpeed * w.noise.Eval2(t, blob.Phase) * dt
			vel.Y += w.opts.DriftSpeed * w.noise.Eval2(blob.Phase+100, t) * dt
		}

		if w.opts.MaxSpeed > 0 {
			speed := math.Hypot(vel.X, vel.Y)
			if speed > w.opts.MaxSpeed {
				scale := w.opts.MaxSpeed / speed
				vel.X *= scale
				vel.Y *= scale
			}
		}

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		if w.opts.Bounce {
			pos.X, vel.X = reflect(pos.X, vel.X, w.opts.Min.X, w.opts.Max.X)
			pos.Y, vel.Y = reflect(pos.Y, vel.Y, w.opts.Min.Y, w.opts.Max.Y)
		}

		blob.Source.Move(pos.Vec())
	}
}

// reflect folds x back into [lo, hi] and points v inward.
func reflect(x, v, lo, hi float64) (float64, float64) {
	if hi <= lo {
		return x, v
	}
	if x < lo {
		x = math.Min(2*lo-x, hi)
		v = math.Abs(v)
	} else if x > hi {
		x = math.Max(2*hi-x, lo)
		v = -math.Abs(v)
	}
	return x, v
}

// Each calls fn for every blob.
func (w *World) Each(fn func(e ecs.Entity, center r2.Vec, f field.Falloff)) {
	query := w.filter.Query()
	for query.Next() {
		pos, _, blob := query.Get()
		fn(query.Entity(), pos.Vec(), blob.Source.Falloff)
	}
}
