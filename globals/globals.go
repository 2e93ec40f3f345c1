package globals

// Spreadsheet column layout (0-indexed). The sheet is edited by hand, so the
// parser treats everything past ColDate as optional.
const (
	ColTitle = iota
	ColDescription
	ColDate
	ColTime
	ColCity
	ColExactAddress
	ColCapacity
)

// MinColumns is the number of columns a row must reach to be usable:
// title and date are mandatory, so a row shorter than ColDate+1 is dropped.
const MinColumns = ColDate + 1

// EventIDPrefix prefixes every derived event identifier.
const EventIDPrefix = "event-"
