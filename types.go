package main

// CacheDumpEntry is one entry in the /cache dump, most-recently-used first
type CacheDumpEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CachePerformance contains cache hit/miss statistics
type CachePerformance struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate_percent"`
}

// CacheDumpResponse is the response format for the /cache endpoint
type CacheDumpResponse struct {
	NumberOfKeys int              `json:"number_of_keys"`
	SizeInKB     int              `json:"size_kb"`
	Performance  CachePerformance `json:"performance"`
	Cache        []CacheDumpEntry `json:"cache"`
}
