package handler

import (
	"fmt"
	"net/http"
	"os"

	"anoa.com/reviewrewards/internal/modules/user/dto"
	user "anoa.com/reviewrewards/internal/modules/user/service"
	"anoa.com/reviewrewards/pkg/response"
	"anoa.com/reviewrewards/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService user.AuthService
}

func NewAuthHandler(authService user.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url := h.authService.GoogleLogin()
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code not found"})
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	res, err := h.authService.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/login?error="+err.Error())
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/google/callback?token=%s&search_token=%s", frontendURL, res.AccessToken, res.SearchToken)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
