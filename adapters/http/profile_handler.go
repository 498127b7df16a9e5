package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	profileUC "github.com/khoahotran/profile-hub/internal/application/usecase/profile"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	baseURL        string
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, baseURL string, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		baseURL:        baseURL,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	input := profileUC.GetProfileInput{Email: c.Param("email")}
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ToUserDTO(output.User, h.baseURL),
	})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	input := profileUC.UpdateProfileInput{}

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			c.Error(apperror.NewInvalidInput(err.Error(), err))
			return
		}
		if raw, ok := c.GetPostForm("interests"); ok {
			req.Interests = json.RawMessage(raw)
		}

		fileHeader, err := c.FormFile("photo")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			c.Error(apperror.NewInvalidInput("cannot read uploaded photo", err))
			return
		default:
			file, err := fileHeader.Open()
			if err != nil {
				c.Error(apperror.NewInvalidInput("cannot open uploaded photo", err))
				return
			}
			defer file.Close()
			input.Photo = &profileUC.PhotoUpload{File: file, Filename: fileHeader.Filename}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput(err.Error(), err))
		return
	}

	input.Email = req.Email
	input.Name = req.Name
	input.Bio = req.Bio
	input.Headline = req.Headline
	input.Interests = req.Interests

	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    ToUserDTO(output.User, h.baseURL),
	})
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	input := profileUC.DeleteProfileInput{Email: c.Param("email")}
	if err := h.profileUseCase.ExecuteDeleteProfile(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	_, callerEmail, ok := GetCallerFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("caller identity not found in context", nil))
		return
	}

	// non-numeric values fall back to the defaults
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	output, err := h.profileUseCase.ExecuteListProfiles(c.Request.Context(), profileUC.ListProfilesInput{
		CallerEmail: callerEmail,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	resp := gin.H{
		"success": true,
		"data":    ToUserDTOs(output.Users, h.baseURL),
	}
	if len(output.Users) == 0 {
		resp["message"] = "No users found"
	}
	c.JSON(http.StatusOK, resp)
}
