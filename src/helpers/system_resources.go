package helpers

// Cache sizing policy: 2% of physical memory at roughly 256KB per cached
// symbol/period (five years of daily bars plus metadata).
const (
	cacheMemoryShare   = 0.02
	cacheEntryKB       = 256
	minCacheEntries    = 64
	maxCacheEntries    = 4096
	fallbackCacheLimit = 256
)

// RecommendedCacheEntries returns the data cache capacity for a machine with
// totalMB of physical memory. Zero means unknown.
func RecommendedCacheEntries(totalMB int) int {
	if totalMB <= 0 {
		return fallbackCacheLimit
	}

	entries := int(float64(totalMB) * cacheMemoryShare * 1024 / cacheEntryKB)
	switch {
	case entries < minCacheEntries:
		return minCacheEntries
	case entries > maxCacheEntries:
		return maxCacheEntries
	}
	return entries
}
