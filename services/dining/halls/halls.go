package halls

// DiningHall is a location on the nutrition site, ID is its locationNum.
type DiningHall struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Directory is the set of halls a batch scrapes, in the order they are
// scraped.
type Directory []DiningHall

var Default = Directory{
	{ID: "19", Name: "Yahentamitsi Dining Hall", Location: "South Campus"},
	{ID: "51", Name: "251 North", Location: "North Campus"},
	{ID: "16", Name: "South Campus Diner", Location: "South Campus"},
}

func (d Directory) Get(id string) (DiningHall, bool) {
	for _, hall := range d {
		if hall.ID == id {
			return hall, true
		}
	}
	return DiningHall{}, false
}

// OrDefault returns Default when d is empty.
func (d Directory) OrDefault() Directory {
	if len(d) == 0 {
		return Default
	}
	return d
}
