package domain

// Category is a ticket classification label managed by staff.
type Category struct {
	ID   int64
	Name string
}

// ProblemType is a predefined problem kind carrying a default priority
// applied when a ticket is drafted against it.
type ProblemType struct {
	ID              int64
	Name            string
	DefaultPriority TicketPriority
}

// DashboardStats is the aggregate the dashboard endpoint reports.
type DashboardStats struct {
	Open        int64
	InProgress  int64
	Closed      int64
	Total       int64
	SLAViolated int64
}
