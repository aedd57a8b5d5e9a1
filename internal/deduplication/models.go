package deduplication

// Stats is a point-in-time view of the seen set.
type Stats struct {
	Backend        string `json:"backend"`
	Size           int    `json:"size"`
	HighWater      int    `json:"high_water"`
	LowWater       int    `json:"low_water"`
	OnBackendError string `json:"on_backend_error"`
	BreakerState   string `json:"breaker_state,omitempty"`
}
