package documenthandler

import (
	"errors"
	"net/http"

	"docsyncgo/internal/http/authmw"
	"docsyncgo/internal/services/document"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc document.IDocumentService
}

func New(svc document.IDocumentService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/api/documents", h.list)
	r.GET("/api/documents/:id", h.info)
	r.POST("/api/documents", h.create)
}

// @Summary		Create a document
// @Description	Creates an empty document owned by the caller.
// @Tags			Documents
// @Param			body	body	CreateDocumentBody	true	"Title payload"
// @Success		200	{object}	document.DocumentDTO
// @Failure		400	{object}	ErrorResponse
// @Router			/api/documents [post]
func (h *Handler) create(ginCtx *gin.Context) {
	var body CreateDocumentBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	dto, err := h.svc.CreateDocument(ginCtx.Request.Context(), body.Title, authmw.UserID(ginCtx))
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, dto)
}

// @Summary		Get document details
// @Description	Returns a single document including its current content.
// @Tags			Documents
// @Param			id	path		string	true	"Document ID"
// @Success		200	{object}	document.DocumentDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/api/documents/{id} [get]
func (h *Handler) info(c *gin.Context) {
	dto, err := h.svc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		List documents
// @Description	Retrieves the caller's documents, most recently edited first.
// @Tags			Documents
// @Param			limit	query		int	false	"Max results (0-100)"	minimum(0)	maximum(100)	default(10)
// @Param			offset	query		int	false	"Offset for pagination"	minimum(0)	default(0)
// @Success		200		{array}		document.DocumentDTO
// @Failure		400		{object}	ErrorResponse
// @Router			/api/documents [get]
func (h *Handler) list(c *gin.Context) {
	var q ListDocumentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListDocuments(c.Request.Context(), authmw.UserID(c), q.Limit, q.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
