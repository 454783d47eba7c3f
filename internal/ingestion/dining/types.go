package dining

// Response shapes for the campus dining GraphQL API.

type DiningCourtMenu struct {
	Name      string     `json:"name"`
	DailyMenu *DailyMenu `json:"dailyMenu"`
}

type DailyMenu struct {
	Meals []Meal `json:"meals"`
}

type Meal struct {
	Name      string    `json:"name"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	Stations  []Station `json:"stations"`
}

type Station struct {
	Name  string        `json:"name"`
	Items []StationItem `json:"items"`
}

type StationItem struct {
	Item *MenuItem `json:"item"`
}

type MenuItem struct {
	Name string `json:"name"`
}
