package schema

// PhotoAssociationTagTable represents the 'core.phototagtag' table
type PhotoAssociationTagTable struct {
	Table         string
	AssociationID string
	TagID         string
}

// PhotoAssociationTag is the schema definition for core.phototagtag
var PhotoAssociationTag = PhotoAssociationTagTable{
	Table:         "core.phototagtag",
	AssociationID: "phototagid",
	TagID:         "tagid",
}
