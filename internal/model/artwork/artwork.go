package artwork

// Coords positions an artwork pin on the floor-plan view, as percentage
// offsets from the top-left corner.
type Coords struct {
	Top  string `json:"top"`
	Left string `json:"left"`
}

// Artwork is one immutable catalog entry, loaded at startup.
type Artwork struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Year        string `json:"year"`
	Image       string `json:"image"`
	Coords      Coords `json:"coords"`
}

// Seed provides the Lords Museum permanent collection highlights.
func Seed() []Artwork {
	return []Artwork{
		{
			ID:          "1",
			Title:       "Mona Lisa",
			Artist:      "Leonardo da Vinci",
			Description: "A half-length portrait painting by Italian artist Leonardo da Vinci. Considered an archetypal masterpiece of the Italian Renaissance.",
			Location:    "Gallery 2A",
			Year:        "c. 1503–1506",
			Image:       "artwork-mona-lisa",
			Coords:      Coords{Top: "25%", Left: "30%"},
		},
		{
			ID:          "2",
			Title:       "The Starry Night",
			Artist:      "Vincent van Gogh",
			Description: "An oil-on-canvas painting by the Dutch Post-Impressionist painter Vincent van Gogh. It shows the view from the east-facing window of his asylum room at Saint-Rémy-de-Provence.",
			Location:    "Gallery 5C",
			Year:        "1889",
			Image:       "artwork-starry-night",
			Coords:      Coords{Top: "40%", Left: "70%"},
		},
		{
			ID:          "3",
			Title:       "The Persistence of Memory",
			Artist:      "Salvador Dalí",
			Description: "A 1931 painting by artist Salvador Dalí and one of the most recognizable works of Surrealism.",
			Location:    "Gallery 8B",
			Year:        "1931",
			Image:       "artwork-persistence-of-memory",
			Coords:      Coords{Top: "75%", Left: "50%"},
		},
		{
			ID:          "4",
			Title:       "Girl with a Pearl Earring",
			Artist:      "Johannes Vermeer",
			Description: "An oil painting by Dutch Golden Age painter Johannes Vermeer. It is a tronie of a girl with a headscarf and a pearl earring.",
			Location:    "Gallery 1A",
			Year:        "c. 1665",
			Image:       "artwork-girl-with-a-pearl-earring",
			Coords:      Coords{Top: "60%", Left: "20%"},
		},
	}
}
