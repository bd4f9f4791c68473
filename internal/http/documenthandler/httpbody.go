package documenthandler

type CreateDocumentBody struct {
	Title string `json:"title" binding:"required,max=200" example:"Untitled Document"`
} // @name CreateDocumentRequest

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

type ListDocumentsQuery struct {
	Limit  int `form:"limit,default=10"  binding:"gte=0,lte=100"`
	Offset int `form:"offset,default=0"  binding:"gte=0"`
} // @name ListDocumentsQuery
