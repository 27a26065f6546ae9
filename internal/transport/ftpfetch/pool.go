package ftpfetch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"

	"feedbridge/internal/transport"
)

// conn is the slice of the FTP client the fetcher needs. Dialing goes
// through a function value so tests can run against a fake server.
type conn interface {
	Retr(path string) (io.ReadCloser, error)
	NoOp() error
	Quit() error
}

type dialFunc func(ctx context.Context, src transport.Source) (conn, error)

type poolKey struct {
	host string
	user string
}

type idleConn struct {
	c        conn
	idleFrom time.Time
}

// Pool reuses FTP control connections keyed by (host, user). It is bounded
// per key, sweeps idle connections past their deadline in the background,
// and is owned entirely by the transport layer; nothing above it ever sees
// a connection.
type Pool struct {
	mu   sync.Mutex
	idle map[poolKey][]idleConn

	dial    dialFunc
	maxIdle int
	idleTTL time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPool creates a pool holding at most maxIdle idle connections per
// (host, user) and closing any connection idle longer than idleTTL.
func NewPool(maxIdle int, idleTTL time.Duration) *Pool {
	return newPool(maxIdle, idleTTL, dialFTP)
}

func newPool(maxIdle int, idleTTL time.Duration, dial dialFunc) *Pool {
	if maxIdle <= 0 {
		maxIdle = 2
	}
	if idleTTL <= 0 {
		idleTTL = time.Minute
	}
	p := &Pool{
		idle:    make(map[poolKey][]idleConn),
		dial:    dial,
		maxIdle: maxIdle,
		idleTTL: idleTTL,
		stopCh:  make(chan struct{}),
	}
	go p.sweepLoop()
	return p
}

func (p *Pool) sweepLoop() {
	ticker := time.NewTicker(p.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.sweep(time.Now())
		case <-p.stopCh:
			return
		}
	}
}

// sweep quits every idle connection whose deadline has passed.
func (p *Pool) sweep(now time.Time) {
	p.mu.Lock()
	var expired []conn
	for key, conns := range p.idle {
		kept := conns[:0]
		for _, ic := range conns {
			if now.Sub(ic.idleFrom) >= p.idleTTL {
				expired = append(expired, ic.c)
			} else {
				kept = append(kept, ic)
			}
		}
		if len(kept) == 0 {
			delete(p.idle, key)
		} else {
			p.idle[key] = kept
		}
	}
	p.mu.Unlock()

	for _, c := range expired {
		_ = c.Quit()
	}
}

func keyFor(src transport.Source) poolKey {
	return poolKey{host: strings.TrimSpace(src.Host), user: strings.TrimSpace(src.User)}
}

// acquire returns a live connection for the source, reusing an idle one
// when it still answers a NoOp and dialing otherwise.
func (p *Pool) acquire(ctx context.Context, src transport.Source) (conn, error) {
	key := keyFor(src)
	for {
		p.mu.Lock()
		conns := p.idle[key]
		if len(conns) == 0 {
			p.mu.Unlock()
			break
		}
		ic := conns[len(conns)-1]
		p.idle[key] = conns[:len(conns)-1]
		p.mu.Unlock()

		if err := ic.c.NoOp(); err != nil {
			_ = ic.c.Quit()
			continue
		}
		return ic.c, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.dial(ctx, src)
}

// release returns a connection to the idle set, quitting it when the
// per-key bound is already met.
func (p *Pool) release(src transport.Source, c conn) {
	key := keyFor(src)
	p.mu.Lock()
	if len(p.idle[key]) < p.maxIdle {
		p.idle[key] = append(p.idle[key], idleConn{c: c, idleFrom: time.Now()})
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	_ = c.Quit()
}

// discard drops a connection that failed mid-use.
func (p *Pool) discard(c conn) {
	_ = c.Quit()
}

// Close quits every idle connection and stops the sweeper.
func (p *Pool) Close() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.mu.Lock()
	idle := p.idle
	p.idle = make(map[poolKey][]idleConn)
	p.mu.Unlock()
	for _, conns := range idle {
		for _, ic := range conns {
			_ = ic.c.Quit()
		}
	}
}

// idleCount reports the number of idle connections for a source's key.
func (p *Pool) idleCount(src transport.Source) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle[keyFor(src)])
}

type serverConn struct {
	sc *ftp.ServerConn
}

func (c *serverConn) Retr(path string) (io.ReadCloser, error) {
	resp, err := c.sc.Retr(path)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *serverConn) NoOp() error { return c.sc.NoOp() }
func (c *serverConn) Quit() error { return c.sc.Quit() }

func dialFTP(ctx context.Context, src transport.Source) (conn, error) {
	port := src.Port
	if port <= 0 {
		port = 21
	}
	addr := fmt.Sprintf("%s:%d", strings.TrimSpace(src.Host), port)
	sc, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(10*time.Second))
	if err != nil {
		return nil, err
	}
	user := strings.TrimSpace(src.User)
	if user == "" {
		user = "anonymous"
	}
	if err := sc.Login(user, src.Password); err != nil {
		_ = sc.Quit()
		return nil, err
	}
	return &serverConn{sc: sc}, nil
}
