package contract

import "errors"

// ErrNotFound reports an absent key. Callers treat it as "start empty", never
// as a failure.
var ErrNotFound = errors.New("local store: key not found")

// ILocalStore is the agent's persistent key/value storage, the localStorage
// analog. Values are opaque JSON blobs under fixed, process-wide keys.
type ILocalStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
