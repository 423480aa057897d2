package devenv

// LiveSiteConfig points tests that talk to the real nutrition site at a
// hall, date and food that are known to exist.
type LiveSiteConfig struct {
	DiningHallID string `json:"dining_hall_id"`
	Date         string `json:"date"`
	RecNum       string `json:"rec_num"`
}
