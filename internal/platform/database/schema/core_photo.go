package schema

// PhotoTable represents the 'core.photo' table
type PhotoTable struct {
	Table       string
	ID          string
	StorageKey  string
	ContentType string
	UploadedBy  string
	UploadedAt  string
}

// Photo is the schema definition for core.photo
var Photo = PhotoTable{
	Table:       "core.photo",
	ID:          "id",
	StorageKey:  "storagekey",
	ContentType: "contenttype",
	UploadedBy:  "uploadedby",
	UploadedAt:  "uploadedat",
}

// Columns returns all standard column names
func (t PhotoTable) Columns() []string {
	return []string{t.ID, t.StorageKey, t.ContentType, t.UploadedBy, t.UploadedAt}
}
