package schema

// CoreProjectTable represents the 'core.project' table
type CoreProjectTable struct {
	Table     string
	ID        string
	OwnerID   string
	Title     string
	Document  string
	CreatedAt string
	UpdatedAt string
}

// CoreProject is the schema definition for core.project
var CoreProject = CoreProjectTable{
	Table:     "core.project",
	ID:        "id",
	OwnerID:   "ownerid",
	Title:     "title",
	Document:  "document",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CoreProjectTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Document, t.CreatedAt, t.UpdatedAt,
	}
}
