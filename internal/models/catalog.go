package models

// Practical is one lab exercise a student attempts once. The id is a stable
// uuid; the display name is renameable and carries the embedded ordinal
// ("Practical No: N") used for sort order. Result files reference practicals
// by the display name known at write time, so name translation happens at the
// result-store boundary only.
type Practical struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subject groups practicals. PracticalIDs is kept in ordinal order.
type Subject struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PracticalIDs []string `json:"practical_ids"`
}
