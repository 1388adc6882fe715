package propgo

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/index/hashset"
	"github.com/propgo/propgo/index/posting"
	"github.com/propgo/propgo/property"
	"github.com/propgo/propgo/query"
)

// Engine holds the property store, the two indexes built from it, and the
// planner that evaluates queries against both. All state is immutable
// after New returns, so an Engine may serve any number of concurrent
// queries without locking.
type Engine struct {
	store   *property.Store
	hash    *hashset.Index
	post    *posting.Index
	planner *query.Planner
	logger  *Logger
	metrics MetricsCollector
}

// New builds both indexes over the store and returns a ready engine.
// A zero-property store is not an error; it yields empty indexes and
// every query returns an empty result.
func New(store *property.Store, optFns ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	props := store.All()
	corpus := index.NewCorpus(props)

	var (
		hashIdx     *hashset.Index
		postIdx     *posting.Index
		hashElapsed time.Duration
		postElapsed time.Duration
	)

	buildHash := func() error {
		start := time.Now()
		hashIdx = hashset.Build(props, opts.buckets, corpus)
		hashElapsed = time.Since(start)
		return nil
	}
	buildPost := func() error {
		start := time.Now()
		postIdx = posting.Build(props, opts.buckets, corpus)
		postElapsed = time.Since(start)
		return nil
	}

	if opts.parallelBuild {
		var g errgroup.Group
		g.Go(buildHash)
		g.Go(buildPost)
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		buildHash() //nolint:errcheck // build cannot fail
		buildPost() //nolint:errcheck
	}

	opts.logger.LogBuild(context.Background(), len(props), hashElapsed, postElapsed)
	opts.metrics.RecordBuild(len(props), hashElapsed, postElapsed)

	if len(props) == 0 {
		opts.logger.Warn("building over empty dataset; all queries will return empty results")
	}

	return &Engine{
		store:   store,
		hash:    hashIdx,
		post:    postIdx,
		planner: query.NewPlanner(store, hashIdx, postIdx),
		logger:  opts.logger,
		metrics: opts.metrics,
	}, nil
}

// Query evaluates one conjunctive filter through both index paths and
// returns the agreed result together with per-path timings. The context
// is used for logging only; a query is a bounded synchronous computation
// and cancellation belongs to the caller's request layer.
func (e *Engine) Query(ctx context.Context, f query.Filter) (*query.Result, error) {
	res, err := e.planner.Evaluate(f)
	if err != nil {
		err = translateError(err)
		var mm *ErrResultMismatch
		if errors.As(err, &mm) {
			e.metrics.RecordMismatch()
		}
		e.logger.LogQuery(ctx, len(f.Conditions)+len(f.Flags), 0, 0, 0, err)
		e.metrics.RecordQuery(0, 0, 0, err)
		return nil, err
	}

	e.logger.LogQuery(ctx, len(f.Conditions)+len(f.Flags), len(res.IDs),
		res.HashSetElapsed, res.PostingListElapsed, nil)
	e.metrics.RecordQuery(len(res.IDs), res.HashSetElapsed, res.PostingListElapsed, nil)
	return res, nil
}

// Store returns the underlying property store.
func (e *Engine) Store() *property.Store {
	return e.store
}

// Len returns the number of indexed properties.
func (e *Engine) Len() int {
	return e.store.Len()
}
