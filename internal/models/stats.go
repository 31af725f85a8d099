package models

// Counts is the body of GET /metrics
type Counts struct {
	Users    int `json:"users"`
	Articles int `json:"articles"`
	Comments int `json:"comments"`
}
