package tag

// CreateTagRequest represents the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// AssignTagRequest links a tag to a transaction.
type AssignTagRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
	TagID         string `json:"tag_id" validate:"required,uuid"`
}
