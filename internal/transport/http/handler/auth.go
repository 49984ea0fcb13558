package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medichat/internal/app"
	"medichat/internal/model"
	"medichat/internal/pkg/imagestore"
	"medichat/internal/transport/http/middleware"
	"medichat/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	images      *imagestore.Store
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}

func NewAuthHandler(authService *app.AuthService, images *imagestore.Store) *AuthHandler {
	return &AuthHandler{authService: authService, images: images}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.SignUp(app.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "sign up failed")
		}
		return
	}

	response.Created(c, gin.H{
		"message": "User registered successfully",
		"user":    publicUser(user),
	})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "sign in failed")
		}
		return
	}

	response.OK(c, gin.H{
		"token": result.Token,
		"user":  publicUser(result.User),
	})
}

// Profile echoes the verified token claims.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	response.OK(c, gin.H{
		"userId": userID,
		"email":  c.GetString(middleware.ContextEmailKey),
		"name":   c.GetString(middleware.ContextNameKey),
		"role":   c.GetString(middleware.ContextRoleKey),
	})
}

func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	admin, err := h.authService.CreateAdmin(app.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "create admin failed")
		}
		return
	}

	response.Created(c, gin.H{
		"message": "Admin user created successfully",
		"admin":   publicUser(admin),
	})
}

func (h *AuthHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	fileHeader, err := c.FormFile("profileImage")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no file uploaded")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer src.Close()

	filename, err := h.images.Save(userID, fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, imagestore.ErrFileTooLarge), errors.Is(err, imagestore.ErrInvalidFileExt):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "store image failed")
		}
		return
	}

	if err := h.authService.UpdateProfileImage(userID, filename); err != nil {
		response.Error(c, http.StatusInternalServerError, "update profile failed")
		return
	}

	response.OK(c, gin.H{
		"message":  "Profile image uploaded successfully",
		"filename": filename,
		"path":     "/uploads/profile-images/" + filename,
	})
}

// ProfileImage serves raw image bytes; any failure collapses into 404 so the
// client falls back to its placeholder avatar.
func (h *AuthHandler) ProfileImage(c *gin.Context) {
	userID64, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID64 == 0 {
		response.Error(c, http.StatusNotFound, "profile image not found")
		return
	}

	user, err := h.authService.GetUserByID(uint(userID64))
	if err != nil || user == nil || user.ProfileImage == "" {
		response.Error(c, http.StatusNotFound, "profile image not found")
		return
	}

	path, err := h.images.Path(user.ProfileImage)
	if err != nil {
		response.Error(c, http.StatusNotFound, "profile image not found")
		return
	}

	c.Header("Content-Type", imagestore.ContentType(user.ProfileImage))
	c.File(path)
}

func publicUser(user *model.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}
