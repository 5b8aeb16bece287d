package schema

// TrackerUserProfileTable represents the 'tracker.userprofile' table
type TrackerUserProfileTable struct {
	Table     string
	Username  string
	CreatedAt string
}

// TrackerUserProfile is the schema definition for tracker.userprofile
var TrackerUserProfile = TrackerUserProfileTable{
	Table:     "tracker.userprofile",
	Username:  "username",
	CreatedAt: "createdat",
}

func (t TrackerUserProfileTable) Columns() []string {
	return []string{t.Username, t.CreatedAt}
}
