package connpool

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	ErrConnect = errors.New("connect error")
	ErrClosed  = errors.New("pool closed")
)

type Closeable interface {
	Close()
}

// Pool hands out at most maxCount live connections. Idle connections are
// parked in a buffered channel and reused; callers wait for a free slot when
// every connection is in use.
type Pool struct {
	New func() Closeable

	idle   chan Closeable
	slots  chan struct{}
	done   chan struct{}
	using  int32
	closed int32
	l      sync.Mutex
}

func NewPool(maxCount int32, dial func() Closeable) *Pool {
	if maxCount < 1 {
		maxCount = 1
	}
	return &Pool{
		New:   dial,
		idle:  make(chan Closeable, maxCount),
		slots: make(chan struct{}, maxCount),
		done:  make(chan struct{}),
	}
}

// Call runs f with a pooled connection. A connection is dropped instead of
// returned to the pool when f reports ErrConnect; its slot is freed either way.
func (p *Pool) Call(f func(conn Closeable) error) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case p.slots <- struct{}{}:
	case <-p.done:
		return ErrClosed
	}
	defer func() { <-p.slots }()

	atomic.AddInt32(&p.using, 1)
	defer atomic.AddInt32(&p.using, -1)

	conn := p.get()
	if conn == nil {
		return ErrConnect
	}

	err := f(conn)
	if err != nil && errors.Is(err, ErrConnect) {
		conn.Close()
		return err
	}
	if !p.put(conn) {
		conn.Close()
	}
	return err
}

// Using reports how many connections are currently checked out.
func (p *Pool) Using() int32 {
	return atomic.LoadInt32(&p.using)
}

// Close drains and closes idle connections and releases waiting callers with
// ErrClosed. Connections still in use are closed when they are handed back.
func (p *Pool) Close() {
	p.l.Lock()
	defer p.l.Unlock()
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	close(p.done)
	for {
		select {
		case conn := <-p.idle:
			conn.Close()
		default:
			return
		}
	}
}

// get is only called while holding a slot, so the idle channel never has to
// be waited on.
func (p *Pool) get() Closeable {
	select {
	case conn := <-p.idle:
		return conn
	default:
		return p.New()
	}
}

func (p *Pool) put(conn Closeable) bool {
	p.l.Lock()
	defer p.l.Unlock()
	if atomic.LoadInt32(&p.closed) == 1 {
		return false
	}
	select {
	case p.idle <- conn:
		return true
	default:
		return false
	}
}
