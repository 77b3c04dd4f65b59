package models

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

const DefaultResultTTL = 120 * time.Second

var (
	resultMu    sync.RWMutex
	resultCache = ttlworker.NewCache[string, *types.GenerateResult](DefaultResultTTL)
)

// SetResultTTL replaces the result cache. Results stored before are dropped.
func SetResultTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	resultMu.Lock()
	defer resultMu.Unlock()
	resultCache = ttlworker.NewCache[string, *types.GenerateResult](ttl)
}

// StoreResult keeps a generated result in memory so the QR endpoint can render it.
func StoreResult(res *types.GenerateResult) {
	if res == nil || res.ID == "" {
		return
	}
	resultMu.RLock()
	defer resultMu.RUnlock()
	resultCache.Set(res.ID, res)
	tool.DefaultLogger.Debugf("Stored result %s", res.ID)
}

// GetResult returns the result for id, or false once it expired.
func GetResult(id string) (*types.GenerateResult, bool) {
	resultMu.RLock()
	defer resultMu.RUnlock()
	res := resultCache.Get(id)
	return res, res != nil
}

// DeleteResult forgets a result before its ttl runs out.
func DeleteResult(id string) {
	resultMu.RLock()
	defer resultMu.RUnlock()
	resultCache.Delete(id)
}
