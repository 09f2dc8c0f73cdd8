package core

// Categories offered when recording an expense. Any other non-empty label is
// accepted as a free-form category.
var Categories = []string{"Food", "Transport", "Utilities", "Entertainment", "Other"}

// Institutions offered as account names. "Other" means the user typed a
// custom name.
var Institutions = []string{
	"BDO Unibank", "BPI", "Metrobank", "GCash", "Maya", "CASH", "CIMB", "Maribank",
	"UNO", "GoTyme", "Land Bank", "Security Bank", "RCBC", "PNB", "China Bank",
	"UnionBank", "EastWest Bank", "CREDIT CARD", "Asia United Bank", "Paypal", "Wise",
	"Other",
}

// IsPresetCategory reports whether name is one of Categories.
func IsPresetCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
