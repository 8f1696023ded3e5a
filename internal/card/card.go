package card

// Card represents a developer profile shown in the swipe deck
type Card struct {
	ID      string     // Stable identifier within a deck
	Image   string     // Path to the profile photo, relative to the deck
	Name    string     // Display name (e.g., "Alexandre, 25")
	Job     string     // Job or role label
	Skills  []string   // Ordered skill tags, at most three
	Reviews int        // Number of reviews received
	Rating  float64    // Average rating, 0 to 5
	Details *Portfolio // Optional detail payload
}

// Portfolio holds the long-form details behind a profile
type Portfolio struct {
	Experience   string
	Education    string
	Technologies []string
	Projects     []Project
}

// Project is one portfolio entry
type Project struct {
	Name        string
	Description string
}

// HasDetails reports whether the card carries a non-empty portfolio
func (c Card) HasDetails() bool {
	if c.Details == nil {
		return false
	}
	d := c.Details
	return d.Experience != "" || d.Education != "" || len(d.Technologies) > 0 || len(d.Projects) > 0
}
