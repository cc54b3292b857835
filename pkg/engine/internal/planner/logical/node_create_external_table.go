package logical

import "github.com/apache/arrow-go/v18/arrow"

// CreateExternalTable registers a table backed by files at Location.
// It produces no rows.
type CreateExternalTable struct {
	Name        string
	Location    string
	FileType    string
	HasHeader   bool
	TableSchema *arrow.Schema
}

var emptySchema = arrow.NewSchema(nil, nil)

// Schema returns the empty schema. The declared schema of the table is held
// in TableSchema.
func (c *CreateExternalTable) Schema() *arrow.Schema { return emptySchema }
func (c *CreateExternalTable) String() string        { return toTreeNode(c).String() }
func (c *CreateExternalTable) isPlan()               {}
