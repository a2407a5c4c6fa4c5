package schema

// PhotoAssociationTable represents the 'core.phototag' table
type PhotoAssociationTable struct {
	Table     string
	ID        string
	PhotoID   string
	GroupID   string
	CreatedAt string
}

// PhotoAssociation is the schema definition for core.phototag
var PhotoAssociation = PhotoAssociationTable{
	Table:     "core.phototag",
	ID:        "id",
	PhotoID:   "photoid",
	GroupID:   "groupid",
	CreatedAt: "createdat",
}
