package placement

import (
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

// Pool keeps one client connection per placement address.
type Pool struct {
	mu    sync.RWMutex
	conns map[string]*grpc.ClientConn
	opts  []grpc.DialOption
}

// DefaultDialOptions returns the options every placement connection uses:
// plaintext transport, OTel stats handler and the JSON codec.
func DefaultDialOptions(connectTimeout time.Duration) []grpc.DialOption {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	if connectTimeout > 0 {
		opts = append(opts, grpc.WithConnectParams(grpc.ConnectParams{
			Backoff:           backoff.DefaultConfig,
			MinConnectTimeout: connectTimeout,
		}))
	}
	return opts
}

// NewPool creates an empty pool. extra options are appended to the defaults.
func NewPool(connectTimeout time.Duration, extra ...grpc.DialOption) *Pool {
	return &Pool{
		conns: make(map[string]*grpc.ClientConn),
		opts:  append(DefaultDialOptions(connectTimeout), extra...),
	}
}

// Conn returns the connection for addr, creating it on first use.
func (p *Pool) Conn(addr string) (*grpc.ClientConn, error) {
	p.mu.RLock()
	conn, ok := p.conns[addr]
	p.mu.RUnlock()
	if ok {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.conns[addr]; ok {
		return conn, nil
	}
	conn, err := grpc.NewClient(addr, p.opts...)
	if err != nil {
		return nil, err
	}
	utils.Logger.Debug("placement connection created", "addr", addr)
	p.conns[addr] = conn
	return conn, nil
}

// Len returns the number of open connections.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

// Close closes every connection and empties the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for addr, conn := range p.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.conns, addr)
	}
	return errors.Join(errs...)
}
