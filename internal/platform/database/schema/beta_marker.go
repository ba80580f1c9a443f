package schema

// BetaMarkerTable represents the 'beta.marker' table
type BetaMarkerTable struct {
	Table           string
	ID              string
	InvitationID    string
	ProjectID       string
	MarkerID        string
	ChapterID       string
	SceneID         string
	Type            string
	Text            string
	HighlightedText string
	PositionData    string
	Imported        string
	ImportedAt      string
	CreatedAt       string
	UpdatedAt       string
}

// BetaMarker is the schema definition for beta.marker
var BetaMarker = BetaMarkerTable{
	Table:           "beta.marker",
	ID:              "id",
	InvitationID:    "invitationid",
	ProjectID:       "projectid",
	MarkerID:        "markerid",
	ChapterID:       "chapterid",
	SceneID:         "sceneid",
	Type:            "markertype",
	Text:            "markertext",
	HighlightedText: "highlightedtext",
	PositionData:    "positiondata",
	Imported:        "imported",
	ImportedAt:      "importedat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t BetaMarkerTable) Columns() []string {
	return []string{
		t.ID, t.InvitationID, t.ProjectID, t.MarkerID, t.ChapterID, t.SceneID,
		t.Type, t.Text, t.HighlightedText, t.PositionData,
		t.Imported, t.ImportedAt, t.CreatedAt, t.UpdatedAt,
	}
}
