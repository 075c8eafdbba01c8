package notification

// Dispatch result statuses.
const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
)

// Outcome records one delivery attempt against one endpoint. Kept only
// for the aggregate dispatch response, never persisted.
type Outcome struct {
	EndpointRef string `json:"endpointRef"`
	OK          bool   `json:"ok"`
	Status      int    `json:"status,omitempty"`
	Skipped     bool   `json:"skipped,omitempty"`
}

// Result is the aggregate response for one dispatch call. There is no
// failed status at this level: endpoint failures live in Results and
// never abort the batch.
type Result struct {
	ID      string    `json:"id,omitempty"`
	Status  string    `json:"status"`
	Count   int       `json:"count,omitempty"`
	Results []Outcome `json:"results,omitempty"`
}

// Delivered counts the successful attempts in the result.
func (r Result) Delivered() int {
	n := 0
	for _, o := range r.Results {
		if o.OK {
			n++
		}
	}
	return n
}
