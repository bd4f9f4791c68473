package authhandler

import "docsyncgo/internal/services/user"

type SignupBody struct {
	Email      string `json:"email"       binding:"required,email" example:"ada@example.com"`
	Name       string `json:"name"        binding:"required"       example:"Ada"`
	ProfilePic string `json:"profile_pic" binding:"omitempty"`
} // @name SignupRequest

type SignupResponse struct {
	User  *user.UserDTO `json:"user"`
	Token string        `json:"token"`
} // @name SignupResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
