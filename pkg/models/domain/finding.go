package domain

type FindingStatus string

const (
	FindingStatusOpen   FindingStatus = "Open"
	FindingStatusClosed FindingStatus = "Closed"
)
