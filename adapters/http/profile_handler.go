package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/profile"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileUseCase: uc, logger: log}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	p, err := h.profileUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) GetFirstProfile(c *gin.Context) {
	p, err := h.profileUseCase.GetFirst(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// CreateProfile serves both content types on one route: a JSON body builds
// the full aggregate, a multipart form carries scalar fields plus the
// imageFile part.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	if isMultipart(c) {
		h.createProfileWithImage(c)
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) createProfileWithImage(c *gin.Context) {
	name, hasName := c.GetPostForm("name")
	title, hasTitle := c.GetPostForm("title")
	if !hasName || !hasTitle {
		c.Error(apperror.NewInvalidInput("'name' and 'title' are required", nil))
		return
	}

	input := profileUC.ProfileInput{
		Name:    name,
		Title:   title,
		Bio:     formValue(c, "bio"),
		Email:   formValue(c, "email"),
		Phone:   formValue(c, "phone"),
		Address: formValue(c, "address"),
	}

	fileHeader, err := c.FormFile("imageFile")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'imageFile' is required", err))
		return
	}
	upload, closeFn, err := openUpload(fileHeader)
	if err != nil {
		c.Error(err)
		return
	}
	defer closeFn()

	p, err := h.profileUseCase.CreateWithImage(c.Request.Context(), input, &upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	if isMultipart(c) {
		h.updateProfileWithImage(c)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) updateProfileWithImage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	address := formValue(c, "address")
	if address == nil {
		// the frontend sends "location" on some screens
		address = formValue(c, "location")
	}
	patch := profileUC.ProfilePatch{
		Name:    formValue(c, "name"),
		Title:   formValue(c, "title"),
		Bio:     formValue(c, "bio"),
		Email:   formValue(c, "email"),
		Phone:   formValue(c, "phone"),
		Address: address,
	}

	var upload *service.FileUpload
	fileHeader, err := c.FormFile("imageFile")
	switch {
	case err == nil:
		u, closeFn, openErr := openUpload(fileHeader)
		if openErr != nil {
			c.Error(openErr)
			return
		}
		defer closeFn()
		upload = &u
	case errors.Is(err, http.ErrMissingFile):
		// optional on update
	default:
		c.Error(apperror.NewInvalidInput("invalid 'imageFile' part", err))
		return
	}

	p, err := h.profileUseCase.UpdateWithImage(c.Request.Context(), id, patch, upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.profileUseCase.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Career endpoints

func (h *ProfileHandler) AddCareer(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req CareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.AddCareer(c.Request.Context(), profileID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpdateCareer(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	careerID, err := parseID(c, "careerId")
	if err != nil {
		c.Error(err)
		return
	}
	var req CareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.UpdateCareer(c.Request.Context(), profileID, careerID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteCareer(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	careerID, err := parseID(c, "careerId")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.DeleteCareer(c.Request.Context(), profileID, careerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// Education endpoints

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.AddEducation(c.Request.Context(), profileID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	educationID, err := parseID(c, "educationId")
	if err != nil {
		c.Error(err)
		return
	}
	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.UpdateEducation(c.Request.Context(), profileID, educationID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	educationID, err := parseID(c, "educationId")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.DeleteEducation(c.Request.Context(), profileID, educationID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// Skill endpoints

func (h *ProfileHandler) AddSkill(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.AddSkill(c.Request.Context(), profileID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpdateSkill(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	skillID, err := parseID(c, "skillId")
	if err != nil {
		c.Error(err)
		return
	}
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.UpdateSkill(c.Request.Context(), profileID, skillID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteSkill(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	skillID, err := parseID(c, "skillId")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.DeleteSkill(c.Request.Context(), profileID, skillID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// Social endpoints

func (h *ProfileHandler) AddSocial(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req SocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.AddSocial(c.Request.Context(), profileID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpdateSocial(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	socialID, err := parseID(c, "socialId")
	if err != nil {
		c.Error(err)
		return
	}
	var req SocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.profileUseCase.UpdateSocial(c.Request.Context(), profileID, socialID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteSocial(c *gin.Context) {
	profileID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	socialID, err := parseID(c, "socialId")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.DeleteSocial(c.Request.Context(), profileID, socialID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}
