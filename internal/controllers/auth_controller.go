package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/accounts"
	"camino_routes/internal/middleware"
)

type AuthController struct {
	accounts accounts.Store
	auth     *middleware.Auth
}

func NewAuthController(store accounts.Store, auth *middleware.Auth) *AuthController {
	return &AuthController{accounts: store, auth: auth}
}

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, err := accounts.Register(c.Request.Context(), ac.accounts, input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	token, err := ac.auth.GenerateToken(editor.ID, editor.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	logrus.WithFields(logrus.Fields{"editor_id": editor.ID, "role": editor.Role}).Info("Editor signed up")
	c.JSON(http.StatusCreated, gin.H{"token": token, "editor": editor})
}

func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, err := accounts.Authenticate(c.Request.Context(), ac.accounts, body.Email, body.Password)
	switch {
	case errors.Is(err, accounts.ErrEditorNotFound), errors.Is(err, accounts.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case err != nil:
		respondError(c, err)
		return
	}

	token, err := ac.auth.GenerateToken(editor.ID, editor.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "editor": editor})
}
