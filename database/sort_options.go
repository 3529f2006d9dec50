package database

const (
	SortAddedDesc   = "added_desc"
	SortAddedAsc    = "added_asc"
	SortPromptAsc   = "prompt_asc"
	SortPromptNat   = "prompt_nat"
	SortProviderAsc = "provider_asc"
)

const DefaultGallerySort = SortAddedDesc

// IsValidGallerySort checks if a string is a valid gallery sort constant
func IsValidGallerySort(order string) bool {
	switch order {
	case SortAddedDesc, SortAddedAsc, SortPromptAsc, SortPromptNat, SortProviderAsc:
		return true
	default:
		return false
	}
}
