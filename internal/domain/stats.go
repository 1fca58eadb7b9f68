package domain

// StatusCounts holds per-status lead totals for one owner.
type StatusCounts struct {
	Total      int64
	New        int64
	Contacted  int64
	Interested int64
	Converted  int64
	Lost       int64
}

// MonthlyStatusCount is one (month, status) bucket of the conversion chart,
// with the month labelled as UTC "YYYY-MM".
type MonthlyStatusCount struct {
	Month  string
	Status LeadStatus
	Count  int64
}

// StatsOverview is the dashboard headline block.
type StatsOverview struct {
	TotalLeads        int64   `json:"total_leads"`
	NewLeads          int64   `json:"new_leads"`
	ContactedLeads    int64   `json:"contacted_leads"`
	InterestedLeads   int64   `json:"interested_leads"`
	ConvertedLeads    int64   `json:"converted_leads"`
	LostLeads         int64   `json:"lost_leads"`
	LeadsThisMonth    int64   `json:"leads_this_month"`
	LeadsThisWeek     int64   `json:"leads_this_week"`
	UpcomingFollowUps int64   `json:"upcoming_follow_ups"`
	ConversionRate    float64 `json:"conversion_rate"`
}

// MonthlyConversion is one chart row; every status is present, zero included.
type MonthlyConversion struct {
	Month      string `json:"month"`
	New        int64  `json:"new"`
	Contacted  int64  `json:"contacted"`
	Interested int64  `json:"interested"`
	Converted  int64  `json:"converted"`
	Lost       int64  `json:"lost"`
}

// DashboardStats is the full dashboard payload. It is also the unit cached
// per user in Redis.
type DashboardStats struct {
	Overview        StatsOverview       `json:"overview"`
	ConversionChart []MonthlyConversion `json:"conversion_chart"`
}
