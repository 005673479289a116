package cache

import (
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/leonardcser/blog-web/internal/logger"
)

// Sweeper is implemented by stores that can drop expired entries.
type Sweeper interface {
	Sweep() (int, error)
}

// Serve accepts connections on l and answers protocol requests from kv
// until l is closed. It waits for in-flight connections before returning.
func Serve(l net.Listener, kv KV) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleConn(conn, kv)
		}()
	}
}

func handleConn(conn net.Conn, kv KV) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		if err := enc.Encode(dispatch(kv, req)); err != nil {
			return
		}
	}
}

func dispatch(kv KV, req Request) Response {
	switch req.Op {
	case OpGet:
		v, err := kv.Get(req.Key)
		if err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true, Value: v}
	case OpPut:
		ttl := time.Duration(req.TTLSeconds) * time.Second
		if err := kv.Put(req.Key, req.Value, ttl); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true}
	case OpDelete:
		if err := kv.Delete(req.Key); err != nil {
			return Response{Error: err.Error()}
		}
		return Response{OK: true}
	case OpSweep:
		sw, ok := kv.(Sweeper)
		if !ok {
			return Response{Error: "sweep unsupported"}
		}
		n, err := sw.Sweep()
		if err != nil {
			return Response{Error: err.Error()}
		}
		logger.Debugf("cache sweep removed %d entries", n)
		return Response{OK: true, Removed: n}
	default:
		return Response{Error: "unknown op"}
	}
}
