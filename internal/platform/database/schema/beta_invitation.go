package schema

// BetaInvitationTable represents the 'beta.invitation' table
type BetaInvitationTable struct {
	Table          string
	ID             string
	ProjectID      string
	AuthorID       string
	Token          string
	Chapters       string
	Message        string
	ReaderName     string
	ReaderEmail    string
	Status         string
	CircleName     string
	Archived       string
	CreatedAt      string
	ExpiresAt      string
	AcceptedAt     string
	LastActivityAt string
}

// BetaInvitation is the schema definition for beta.invitation
var BetaInvitation = BetaInvitationTable{
	Table:          "beta.invitation",
	ID:             "id",
	ProjectID:      "projectid",
	AuthorID:       "authorid",
	Token:          "token",
	Chapters:       "chaptersaccessible",
	Message:        "message",
	ReaderName:     "readername",
	ReaderEmail:    "readeremail",
	Status:         "status",
	CircleName:     "circlename",
	Archived:       "archived",
	CreatedAt:      "createdat",
	ExpiresAt:      "expiresat",
	AcceptedAt:     "acceptedat",
	LastActivityAt: "lastactivityat",
}

func (t BetaInvitationTable) Columns() []string {
	return []string{
		t.ID, t.ProjectID, t.AuthorID, t.Token, t.Chapters, t.Message,
		t.ReaderName, t.ReaderEmail, t.Status, t.CircleName, t.Archived,
		t.CreatedAt, t.ExpiresAt, t.AcceptedAt, t.LastActivityAt,
	}
}
