package schema

// TrackerMangaListTable represents the 'tracker.mangalist' table
type TrackerMangaListTable struct {
	Table     string
	Username  string
	Items     string
	UpdatedAt string
}

// TrackerMangaList is the schema definition for tracker.mangalist
var TrackerMangaList = TrackerMangaListTable{
	Table:     "tracker.mangalist",
	Username:  "username",
	Items:     "items",
	UpdatedAt: "updatedat",
}

func (t TrackerMangaListTable) Columns() []string {
	return []string{t.Username, t.Items, t.UpdatedAt}
}
