package models

// TrendPoint is one month's spend in the six-month trend, labeled by month
// abbreviation ("Jan", "Feb", ...), oldest to newest.
type TrendPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// VehicleStats are the rolled-up ownership-cost metrics for one vehicle,
// recomputed fresh from the ledger on every read.
type VehicleStats struct {
	VehicleID    uint               `json:"vehicle_id"`
	TotalSpend   float64            `json:"total_spend"`
	MonthSpend   float64            `json:"month_spend"`
	Trend        []TrendPoint       `json:"trend"`
	Breakdown    map[string]float64 `json:"breakdown"`
	CostPerMonth float64            `json:"cost_per_month"`
	CostPerKm    float64            `json:"cost_per_km"`
	OverdueCount int                `json:"overdue_count"`
	HealthScore  int                `json:"health_score"`
}

// Risk severity constants, ordered critical > warning > info
const (
	RiskSeverityCritical = "critical"
	RiskSeverityWarning  = "warning"
	RiskSeverityInfo     = "info"
)

// Risk is one prioritized alert derived from loan and obligation state
type Risk struct {
	Severity string  `json:"severity"`
	Code     string  `json:"code"`
	Title    string  `json:"title"`
	Detail   string  `json:"detail"`
	Amount   float64 `json:"amount,omitempty"`
}
