package utils

import "sync"

var rasterMu sync.Mutex

// ExecuteWithRasterLock serializes access to the GDAL dataset layer,
// which is not safe for concurrent reads on the same handle.
func ExecuteWithRasterLock(fn func()) {
	rasterMu.Lock()
	defer rasterMu.Unlock()
	fn()
}
