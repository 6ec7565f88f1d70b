package sweep

// Result summarises one sweep invocation.
type Result struct {
	TenantsProcessed int `json:"tenantsProcessed"`
	Candidates       int `json:"candidates"`
	AutoCheckedOut   int `json:"autoCheckedOut"`
	// Skipped counts tenants whose end of day has not been reached yet.
	Skipped int `json:"skipped"`
	// Failed counts candidates that were not closed by this run.
	Failed int `json:"failed"`
}

func (r *Result) Add(other Result) {
	r.TenantsProcessed += other.TenantsProcessed
	r.Candidates += other.Candidates
	r.AutoCheckedOut += other.AutoCheckedOut
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}
