package response

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ValidationErrorResponse carries one message per offending field so the
// caller can redisplay the whole form with every problem highlighted.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
}
