package domain

// ToolProvider is the read-only view of the catalog handed to consumers such as the
// recommendation adapter. It is satisfied by *catalog.Store.
type ToolProvider interface {
	Snapshot() []Tool
}
