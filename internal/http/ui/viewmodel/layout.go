package viewmodel

// User represents the signed-in user exposed to templates.
type User struct {
	Name    string
	Avatar  string
	Role    string
	IsAdmin bool
}

// NavItem is one entry of the top navigation.
type NavItem struct {
	Path   string
	Title  string
	Active bool
}

// Notice is a one-shot message shown above the page content.
type Notice struct {
	Level string
	Text  string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	User            *User
	Nav             []NavItem
	Notice          *Notice
	LoginPath       string
}
