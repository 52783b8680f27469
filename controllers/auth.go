package controllers

import (
	"net/http"

	"chiludos-backend/middlewares"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type AuthController struct {
	auth *services.AuthService
	resp *utils.ErrorResponder
}

func NewAuthController(auth *services.AuthService, resp *utils.ErrorResponder) *AuthController {
	return &AuthController{auth: auth, resp: resp}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := bindJSON(c, &input); err != nil {
		ac.resp.Respond(c, err)
		return
	}

	result, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Registration successful", result)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if err := bindJSON(c, &input); err != nil {
		ac.resp.Respond(c, err)
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Login successful", result)
}

func (ac *AuthController) Profile(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}

	user, err := ac.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", user)
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}

	var input services.ProfileInput
	if err := bindJSON(c, &input); err != nil {
		ac.resp.Respond(c, err)
		return
	}

	user, err := ac.auth.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Profile updated", user)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		ac.resp.Respond(c, err)
		return
	}

	var input ChangePasswordInput
	if err := bindJSON(c, &input); err != nil {
		ac.resp.Respond(c, err)
		return
	}

	if err := ac.auth.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		ac.resp.Respond(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Password updated")
}
