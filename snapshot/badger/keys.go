package badger

import (
	"fmt"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
)

// Key prefixes for different data types
const (
	queuePagePrefix = "qpage"
)

// makePageKey generates a key for a cached queue page by query key.
func makePageKey(key core.QueryKey) []byte {
	return []byte(fmt.Sprintf("%s:%d", queuePagePrefix, uint64(key)))
}
