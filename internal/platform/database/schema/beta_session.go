package schema

// BetaSessionTable represents the 'beta.session' table
type BetaSessionTable struct {
	Table         string
	ID            string
	InvitationID  string
	LastChapterID string
	Completion    string
	Notes         string
	CreatedAt     string
	UpdatedAt     string
}

// BetaSession is the schema definition for beta.session
var BetaSession = BetaSessionTable{
	Table:         "beta.session",
	ID:            "id",
	InvitationID:  "invitationid",
	LastChapterID: "lastchapterid",
	Completion:    "completionpct",
	Notes:         "notes",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}
