package api

type Period struct {
	Label    string `json:"label"`
	Offset   int    `json:"offset"`
	Date     string `json:"date"`
	Baseline bool   `json:"baseline"`
	Target   bool   `json:"target"`
}

type BusinessUnit struct {
	ID string `json:"id"`
}

type Error struct {
	Message string `json:"error"`
}
