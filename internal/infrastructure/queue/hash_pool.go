package queue

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminboard/dashboard-api/internal/api/metrics"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

const channelBuffer = 256

// ErrPoolClosed is returned for work submitted after the pool stopped.
var ErrPoolClosed = errors.New("hash pool closed")

type jobKind int

const (
	jobHash jobKind = iota
	jobCompare
)

func (k jobKind) String() string {
	if k == jobCompare {
		return "compare"
	}
	return "hash"
}

type hashJob struct {
	kind     jobKind
	password string
	hash     string
	result   chan hashResult
}

type hashResult struct {
	hash string
	err  error
}

// HashPool runs password hashing on a fixed set of worker goroutines so that
// CPU-bound bcrypt work is bounded and queued instead of piling up on request
// goroutines. It implements ports.PasswordHasher by delegating to an inner
// hasher.
//
// A job that has been picked up by a worker always runs to completion. The
// caller's context only applies while the job is waiting to be queued.
type HashPool struct {
	jobs    chan hashJob
	hasher  ports.PasswordHasher
	workers int
	log     zerolog.Logger

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers. If numWorkers <= 0,
// one worker per CPU is used.
func NewHashPool(numWorkers int, hasher ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		jobs:    make(chan hashJob, channelBuffer),
		hasher:  hasher,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches the workers. When ctx is cancelled the pool stops accepting
// work, drains what is already queued and the workers exit.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
	go func() {
		<-ctx.Done()
		p.Close()
	}()
}

// Close stops intake and waits for queued jobs to finish.
func (p *HashPool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	res, err := p.submit(ctx, hashJob{kind: jobHash, password: password})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

func (p *HashPool) Compare(ctx context.Context, hash, password string) error {
	res, err := p.submit(ctx, hashJob{kind: jobCompare, password: password, hash: hash})
	if err != nil {
		return err
	}
	return res.err
}

func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	job.result = make(chan hashResult, 1)

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return hashResult{}, ErrPoolClosed
	}
	select {
	case p.jobs <- job:
	case <-ctx.Done():
		p.mu.RUnlock()
		return hashResult{}, ctx.Err()
	}
	p.mu.RUnlock()
	metrics.HashQueueDepth.Set(float64(len(p.jobs)))

	return <-job.result, nil
}

func (p *HashPool) runWorker(id int) {
	defer p.wg.Done()
	worker := strconv.Itoa(id)

	for job := range p.jobs {
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
		start := time.Now()

		// Work runs detached from any request context.
		var res hashResult
		switch job.kind {
		case jobCompare:
			res.err = p.hasher.Compare(context.Background(), job.hash, job.password)
		default:
			res.hash, res.err = p.hasher.Hash(context.Background(), job.password)
			if res.err != nil {
				p.log.Error().Err(res.err).Str("worker_id", worker).Msg("password hashing failed")
			}
		}

		metrics.PasswordHashDuration.WithLabelValues(job.kind.String()).Observe(time.Since(start).Seconds())
		job.result <- res
	}
}
