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

package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNew_invalid(t *testing.T) {
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(-1) })
}

func TestPool_fifo(t *testing.T) {
	p := New(1, WithLogger(zaptest.NewLogger(t)))
	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, p.Submit(func(context.Context) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	p.Join()
	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, p.Queued())
}

func TestPool_concurrency(t *testing.T) {
	const size = 3
	p := New(size)
	var (
		running int32
		peak    int32
		done    int32
	)
	for i := 0; i < 30; i++ {
		require.NoError(t, p.Submit(func(context.Context) {
			n := atomic.AddInt32(&running, 1)
			for {
				v := atomic.LoadInt32(&peak)
				if n <= v || atomic.CompareAndSwapInt32(&peak, v, n) {
					break
				}
			}
			time.Sleep(time.Millisecond * 2)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&done, 1)
		}))
	}
	p.Join()
	assert.Equal(t, int32(30), done)
	assert.LessOrEqual(t, peak, int32(size))
	assert.Greater(t, peak, int32(0))
}

func TestPool_panic(t *testing.T) {
	p := New(1, WithLogger(zaptest.NewLogger(t)))
	var ran int32
	require.NoError(t, p.Submit(func(context.Context) { panic(`some panic`) }))
	require.NoError(t, p.Submit(func(context.Context) { atomic.StoreInt32(&ran, 1) }))
	p.Join()
	assert.Equal(t, int32(1), ran)
}

func TestPool_Close(t *testing.T) {
	p := New(1)
	var (
		started = make(chan struct{})
		release = make(chan struct{})
		ran     int32
		ctxErr  = make(chan error, 1)
	)
	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		select {
		case <-ctx.Done():
		case <-release:
		}
		ctxErr <- ctx.Err()
	}))
	<-started
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(context.Context) { atomic.AddInt32(&ran, 1) }))
	}
	assert.Equal(t, 5, p.Queued())

	p.Close()
	assert.Equal(t, 0, p.Queued())
	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrClosed)
	assert.ErrorIs(t, <-ctxErr, context.Canceled)

	p.Join()
	close(release)
	assert.Equal(t, int32(0), ran)

	// idempotent
	p.Close()
	p.Join()
}

func TestPool_Join(t *testing.T) {
	p := New(2)
	var ran int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			if ctx.Err() == nil {
				atomic.AddInt32(&ran, 1)
			}
		}))
	}
	p.Join()
	assert.Equal(t, int32(10), ran)
	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrClosed)
}

func TestPool_Submit_nil(t *testing.T) {
	p := New(1)
	defer p.Join()
	assert.NoError(t, p.Submit(nil))
	assert.Equal(t, 0, p.Queued())
}
