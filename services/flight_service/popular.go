package flight_service

// Place is one end of a popular route.
type Place struct {
	City     string `json:"city"`
	Airport  string `json:"airport"`
	IATACode string `json:"iataCode"`
	Country  string `json:"country"`
}

// PopularRoute is a curated route with a starting fare.
type PopularRoute struct {
	From     Place   `json:"from"`
	To       Place   `json:"to"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

var bangkok = Place{City: "Bangkok", Airport: "Suvarnabhumi", IATACode: "BKK", Country: "Thailand"}

var popularRoutes = []PopularRoute{
	{From: bangkok, To: Place{City: "Chiang Mai", Airport: "Chiang Mai International", IATACode: "CNX", Country: "Thailand"}, Price: 1590, ImageURL: "https://source.unsplash.com/800x600/?chiangmai"},
	{From: bangkok, To: Place{City: "Phuket", Airport: "Phuket International", IATACode: "HKT", Country: "Thailand"}, Price: 1890, ImageURL: "https://source.unsplash.com/800x600/?phuket"},
	{From: bangkok, To: Place{City: "Tokyo", Airport: "Narita", IATACode: "NRT", Country: "Japan"}, Price: 15900, ImageURL: "https://source.unsplash.com/800x600/?tokyo"},
	{From: bangkok, To: Place{City: "Singapore", Airport: "Changi", IATACode: "SIN", Country: "Singapore"}, Price: 6900, ImageURL: "https://source.unsplash.com/800x600/?singapore"},
	{From: bangkok, To: Place{City: "Hong Kong", Airport: "Chek Lap Kok", IATACode: "HKG", Country: "Hong Kong"}, Price: 8500, ImageURL: "https://source.unsplash.com/800x600/?hongkong"},
	{From: bangkok, To: Place{City: "Seoul", Airport: "Incheon", IATACode: "ICN", Country: "South Korea"}, Price: 11900, ImageURL: "https://source.unsplash.com/800x600/?seoul"},
}

// Popular returns the curated list of popular routes.
func (s *Service) Popular() []PopularRoute {
	out := make([]PopularRoute, len(popularRoutes))
	copy(out, popularRoutes)
	return out
}
