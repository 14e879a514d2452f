package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/cache"
	"github.com/nbmap/nbmap/pkg/links"
	"github.com/nbmap/nbmap/pkg/nb"
	"github.com/nbmap/nbmap/pkg/nb/contig"
	"github.com/nbmap/nbmap/pkg/observability"
	"github.com/nbmap/nbmap/pkg/render/mapview"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Collection is the decoded areal collection.
	Collection *areal.Collection

	// Relation is the neighbour relation the map was built from.
	Relation *nb.Relation

	// Links is the derived connector geometry.
	Links *links.Set

	// Map is the composed map (nil when no raster/vector map format was
	// requested).
	Map *mapview.Map

	// ContentHash is the SHA-256 of the input bytes; cache keys and API
	// responses derive from it.
	ContentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Areas          int
	Links          int
	LoadTime       time.Duration
	NeighboursTime time.Duration
	ComposeTime    time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for the cached pipeline stages.
type CacheInfo struct {
	NeighboursHit bool // Whether the relation came from cache
	RenderHit     bool // Whether all artifacts came from cache
}

// Execute runs the complete load → neighbours → compose → render
// pipeline with caching. data holds the raw GeoJSON input.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		ContentHash: cache.Hash(data),
		Artifacts:   make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	col, err := areal.Decode(data)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, colLen(col), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Collection = col
	result.Stats.Areas = col.Len()

	r.Logger.Info("loaded collection",
		"source", opts.Source,
		"areas", col.Len(),
		"crs", col.CRS(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Neighbours
	nbStart := time.Now()
	rel, nbHit, err := r.NeighboursWithCacheInfo(ctx, col, result.ContentHash, opts)
	if err != nil {
		return nil, fmt.Errorf("neighbours: %w", err)
	}
	result.Relation = rel
	result.Stats.NeighboursTime = time.Since(nbStart)
	result.Stats.Links = len(rel.Pairs())
	result.CacheInfo.NeighboursHit = nbHit

	r.Logger.Info("resolved neighbours",
		"method", opts.Method,
		"links", result.Stats.Links,
		"duration", result.Stats.NeighboursTime)

	// Stage 3: Compose
	composeStart := time.Now()
	observability.Pipeline().OnComposeStart(ctx, col.Len(), result.Stats.Links)
	set, err := links.Build(col, rel)
	if err != nil {
		observability.Pipeline().OnComposeComplete(ctx, 0, time.Since(composeStart), err)
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Links = set

	m, err := mapview.Compose(col, set, opts.Map)
	result.Stats.ComposeTime = time.Since(composeStart)
	observability.Pipeline().OnComposeComplete(ctx, mapLayers(m), result.Stats.ComposeTime, err)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Map = m

	r.Logger.Info("composed map",
		"layers", len(m.LayerNames()),
		"duration", result.Stats.ComposeTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// NeighboursWithCacheInfo resolves the neighbour relation with caching
// and returns cache hit info. The column method reads the collection's
// 'nb' column; the geometric methods build the relation from scratch.
func (r *Runner) NeighboursWithCacheInfo(ctx context.Context, col *areal.Collection, contentHash string, opts Options) (*nb.Relation, bool, error) {
	if err := opts.ValidateForNeighbours(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.RelationKey(contentHash, opts.RelationKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if rel, err := decodeRelation(data, col.Len()); err == nil {
				observability.Cache().OnCacheHit(ctx, "relation")
				return rel, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "relation")
	}

	start := time.Now()
	observability.Pipeline().OnNeighboursStart(ctx, opts.Method, col.Len())
	rel, err := r.buildRelation(col, opts)
	observability.Pipeline().OnNeighboursComplete(ctx, opts.Method, relLinks(rel), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := encodeRelation(rel); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRelation); err == nil {
			observability.Cache().OnCacheSet(ctx, "relation", len(data))
		}
	}

	return rel, false, nil
}

// Neighbours is a convenience wrapper that discards the cache hit info.
func (r *Runner) Neighbours(ctx context.Context, col *areal.Collection, contentHash string, opts Options) (*nb.Relation, error) {
	rel, _, err := r.NeighboursWithCacheInfo(ctx, col, contentHash, opts)
	return rel, err
}

func (r *Runner) buildRelation(col *areal.Collection, opts Options) (*nb.Relation, error) {
	var (
		rel *nb.Relation
		err error
	)
	switch opts.Method {
	case MethodColumn:
		rel, err = col.Neighbours()
	case MethodQueen:
		rel, err = contig.Queen(col, contig.Options{Snap: opts.Snap})
	case MethodRook:
		rel, err = contig.Rook(col, contig.Options{Snap: opts.Snap})
	case MethodKNN:
		rel, err = contig.KNearest(col, opts.K)
	default:
		err = ValidateMethod(opts.Method)
	}
	if err != nil {
		return nil, err
	}
	if opts.Symmetrize && !rel.Symmetric() {
		rel = rel.Symmetrize()
	}
	return rel, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns
// cache hit info. The result must carry the collection, relation,
// links and map of a completed compose stage.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(result.ContentHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := renderFormats(result, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(result.ContentHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// encodeRelation serializes a relation in its external row form for
// caching. decodeRelation reverses it; the round trip preserves the
// adjacency exactly (see nb.Relation.Rows).
func encodeRelation(rel *nb.Relation) ([]byte, error) {
	return json.Marshal(rel.Rows())
}

func decodeRelation(data []byte, n int) (*nb.Relation, error) {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) != n {
		return nil, fmt.Errorf("cached relation covers %d areas, collection has %d", len(rows), n)
	}
	return nb.FromRows(rows, n)
}

func colLen(col *areal.Collection) int {
	if col == nil {
		return 0
	}
	return col.Len()
}

func relLinks(rel *nb.Relation) int {
	if rel == nil {
		return 0
	}
	return len(rel.Pairs())
}

func mapLayers(m *mapview.Map) int {
	if m == nil {
		return 0
	}
	return len(m.LayerNames())
}
