/*
   Copyright 2021 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package pool implements a fixed size pool of workers, which run tasks in FIFO order.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type (
	// Task is a unit of work, ctx is canceled when the pool is closed.
	Task func(ctx context.Context)

	// Pool runs at most n tasks at once, on n long-lived goroutines. Tasks are started in the order they were
	// submitted. A panicking task is logged and otherwise ignored.
	Pool struct {
		ctx    context.Context
		cancel context.CancelFunc
		logger *zap.Logger
		mu     sync.Mutex
		cond   *sync.Cond
		queue  []Task
		alive  bool
		wg     sync.WaitGroup
	}

	// Option configures a Pool.
	Option func(p *Pool)
)

var (
	// ErrClosed is returned by Submit once the pool has been closed or joined.
	ErrClosed = errors.New(`pool: closed`)
)

// WithLogger sets the logger used to report task panics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New starts a pool of n workers, n must be positive.
func New(n int, opts ...Option) *Pool {
	if n <= 0 {
		panic(fmt.Errorf(`pool.New invalid size: %d`, n))
	}
	p := &Pool{
		logger: zap.NewNop(),
		alive:  true,
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker(i)
	}
	return p
}

// Submit queues a task, a nil task is ignored.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.alive {
		return ErrClosed
	}
	if task != nil {
		p.queue = append(p.queue, task)
		p.cond.Signal()
	}
	return nil
}

// Close stops accepting tasks, discards any that are queued, and cancels the context of running tasks. It doesn't
// wait, see Join.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.alive {
		p.alive = false
		for i := range p.queue {
			p.queue[i] = nil
		}
		p.queue = nil
		p.cancel()
		p.cond.Broadcast()
	}
}

// Join stops accepting tasks, then waits for the queue to drain and all workers to exit.
func (p *Pool) Join() {
	p.mu.Lock()
	p.alive = false
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()
}

// Queued is the number of tasks waiting for a worker.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) next() Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 {
		if !p.alive {
			return nil
		}
		p.cond.Wait()
	}
	task := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return task
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		task := p.next()
		if task == nil {
			return
		}
		p.run(id, task)
	}
}

func (p *Pool) run(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(`task panicked`, zap.Int(`worker`, id), zap.Any(`panic`, r))
		}
	}()
	task(p.ctx)
}
