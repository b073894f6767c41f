package storage

import "fmt"

// RID identifies a record within a table: the page it lives on and its slot
// index within that page's occupancy bitmap and slot array.
type RID struct {
	PageID uint32
	SlotID uint32
}

// InvalidRID is returned when a scan runs off the last page.
var InvalidRID = RID{PageID: InvalidPageID, SlotID: InvalidSlotID}

// IsValid reports whether r names a real page/slot pair.
func (r RID) IsValid() bool {
	return r.PageID != InvalidPageID && r.SlotID != InvalidSlotID
}

func (r RID) String() string {
	if !r.IsValid() {
		return "RID(invalid)"
	}
	return fmt.Sprintf("RID(%d,%d)", r.PageID, r.SlotID)
}
