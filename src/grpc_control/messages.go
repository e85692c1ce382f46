package grpc_control

type Empty struct{}

type SourceStatus struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Position int    `json:"position"`
}

type ListSourcesResponse struct {
	Sources []*SourceStatus `json:"sources"`
}

type AddSourceRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	BaseURL string `json:"base_url,omitempty"`
}

type RemoveSourceRequest struct {
	Name string `json:"name"`
}

type SourceControlResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	CurrentState string `json:"current_state"`
}

// PurgeCacheRequest drops expired cache entries, or every entry when All
// is set.
type PurgeCacheRequest struct {
	All bool `json:"all"`
}

type PurgeCacheResponse struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

type StatusResponse struct {
	Sources        []*SourceStatus `json:"sources"`
	CacheEntries   int             `json:"cache_entries"`
	ActiveSessions int             `json:"active_sessions"`
}
