package authhandler

import (
	"net/http"

	"docsyncgo/internal/auth"
	"docsyncgo/internal/http/authmw"
	"docsyncgo/internal/services/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc    user.IUserService
	tokens *auth.Tokens
}

func New(svc user.IUserService, tokens *auth.Tokens) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) RegisterPublic(r gin.IRoutes) {
	r.POST("/api/signup", h.signup)
}

func (h *Handler) RegisterProtected(r gin.IRoutes) {
	r.GET("/api/me", h.me)
}

// signup upserts the user by email and returns a signed token. Existing users
// simply get a fresh token.
func (h *Handler) signup(ginCtx *gin.Context) {
	var body SignupBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	dto, err := h.svc.SignUp(ginCtx.Request.Context(), body.Email, body.Name, body.ProfilePic)
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	token, err := h.tokens.Issue(dto.ID)
	if err != nil {
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, &SignupResponse{User: dto, Token: token})
}

func (h *Handler) me(ginCtx *gin.Context) {
	dto, err := h.svc.GetUser(ginCtx.Request.Context(), authmw.UserID(ginCtx))
	if err != nil {
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusOK, gin.H{"user": dto})
}
