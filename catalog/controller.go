package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is a point-in-time view of a Controller.
// Records is shared and must be treated as read-only.
type State struct {
	Records    []Record
	Loading    bool
	Err        string // empty when the last settled refresh succeeded
	Generation uint64 // refresh that produced Records; 0 before the first success
	Tier       Tier
	Index      IndexInfo
	LoadedAt   time.Time
}

// IndexInfo is the metadata of the index that produced the current records.
type IndexInfo struct {
	Version     string
	GeneratedAt string
	Mode        string
	Count       int
}

// Controller owns the current collection and the refresh lifecycle around it.
// A refresh builds a complete new collection before publishing it, so readers
// never see a partial result.
type Controller struct {
	loader Loader
	log    *zap.SugaredLogger
	now    func() time.Time

	mu       sync.RWMutex
	state    State
	trigger  uint64 // last refresh started
	settled  uint64 // newest refresh whose outcome was applied
	inFlight int
}

// NewController returns a controller with an empty collection.
func NewController(loader Loader, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{
		loader: loader,
		log:    log,
		now:    time.Now,
		state:  State{Records: []Record{}},
	}
}

// Refresh loads and enriches the index and publishes it. Starting a refresh clears
// the last error. On failure the previous collection stays in place and the error
// message is recorded. When refreshes
// overlap, an outcome older than one already applied is discarded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.trigger++
	gen := c.trigger
	c.inFlight++
	c.state.Loading = true
	c.state.Err = ""
	c.mu.Unlock()

	c.log.Infow("Refreshing catalog", zap.Uint64("generation", gen))
	result, err := c.loader.Load(ctx)

	var records []Record
	if err == nil {
		records = result.Enrich()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.state.Loading = c.inFlight > 0

	if gen < c.settled {
		c.log.Infow("Discarding superseded refresh",
			zap.Uint64("generation", gen),
			zap.Uint64("settled", c.settled),
		)
		return err
	}
	c.settled = gen

	if err != nil {
		c.state.Err = err.Error()
		c.log.Errorw("Catalog refresh failed", zap.Uint64("generation", gen), zap.Error(err))
		return err
	}

	c.state.Records = records
	c.state.Err = ""
	c.state.Generation = gen
	c.state.Tier = result.Tier
	c.state.Index = IndexInfo{
		Version:     result.Index.Version,
		GeneratedAt: result.Index.GeneratedAt,
		Mode:        result.Index.Mode,
		Count:       result.Index.Count,
	}
	c.state.LoadedAt = c.now()
	c.log.Infow("Catalog refreshed",
		zap.Uint64("generation", gen),
		zap.String("tier", string(result.Tier)),
		zap.Int("records", len(records)),
	)
	return nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Records returns the current, unfiltered collection.
func (c *Controller) Records() []Record {
	return c.Snapshot().Records
}

// Query applies q to the current collection.
func (c *Controller) Query(q Query) []Record {
	return Apply(c.Records(), q)
}
