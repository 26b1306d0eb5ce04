package models

// MSummaryStatistics holds scalar statistics over the close column of a series.
type MSummaryStatistics struct {
	Mean      float64  `json:"mean"`
	Max       float64  `json:"max"`
	Min       float64  `json:"min"`
	StdDev    *float64 `json:"std_dev"` // nil when fewer than two sessions
	Latest    float64  `json:"latest"`
	Count     int      `json:"count"`
	FirstDate string   `json:"first_date"`
	LastDate  string   `json:"last_date"`
}
