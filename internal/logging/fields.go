package logging

// Shared attribute keys. Using constants keeps field names greppable across
// components and stable for log consumers.
const (
	FieldComponent = "component"
	FieldChannelID = "channel_id"
	FieldSlotLabel = "slot_label"
	FieldDate      = "date"
	FieldCatalogID = "catalog_id"
	FieldKind      = "kind"
	FieldRunID     = "run_id"
	FieldCount     = "count"
	FieldQuery     = "query"
	FieldPool      = "pool_size"
)
