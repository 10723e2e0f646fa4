package domain

// Counts are the dashboard aggregates, computed fresh on each request.
type Counts struct {
	Total    int64 `json:"total"`
	Open     int64 `json:"open"`
	Done     int64 `json:"done"`
	Users    int64 `json:"users"`
	Overdue  int64 `json:"overdue"`
	DueToday int64 `json:"due_today"`
}
