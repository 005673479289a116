package cache

// Line-delimited JSON protocol spoken between the blog server and the cache
// daemon over a Unix domain socket. A connection carries any number of
// request/response pairs.

const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
	OpSweep  = "sweep"
)

type Request struct {
	Op         string `json:"op"`
	Key        string `json:"key"`
	Value      []byte `json:"value,omitempty"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
}

type Response struct {
	OK      bool   `json:"ok"`
	Value   []byte `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
	Removed int    `json:"removed,omitempty"`
}

// remoteError maps an error string from the wire back onto the package
// sentinels so callers can use errors.Is on both sides of the socket.
func remoteError(msg string) error {
	switch msg {
	case ErrNotFound.Error():
		return ErrNotFound
	case ErrExpired.Error():
		return ErrExpired
	}
	return &RemoteError{Msg: msg}
}

// RemoteError is a failure reported by the daemon.
type RemoteError struct{ Msg string }

func (e *RemoteError) Error() string { return "cache daemon: " + e.Msg }
