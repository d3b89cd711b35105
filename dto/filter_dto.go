package dto

// IncidentFilterDTO carries the optional listing filters as they arrive on
// the query string. Dates stay strings here: malformed values are ignored
// rather than rejected, so parsing happens later under that contract.
type IncidentFilterDTO struct {
	Query    string `form:"q"`
	Customer string `form:"customer"`
	Severity string `form:"severity"`
	Status   string `form:"status"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type PaginationDTO struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=10"`
}
