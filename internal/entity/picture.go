package entity

// Picture is the metadata record for one uploaded evidence image. RefCount
// is the number of unresolved snipes that still depend on the binary; the
// record itself persists as a tombstone after the binary is deleted.
type Picture struct {
	ID       string `json:"id"`
	RefCount int    `json:"ref_count"`
}
