package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	projectUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/project"
	"github.com/jaehyun-dev/portfolio-backend/internal/application/service"
	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

type ProjectHandler struct {
	createProjectUseCase  *projectUC.CreateProjectUseCase
	listProjectsUseCase   *projectUC.ListProjectsUseCase
	getProjectUseCase     *projectUC.GetProjectUseCase
	updateProjectUseCase  *projectUC.UpdateProjectUseCase
	deleteProjectUseCase  *projectUC.DeleteProjectUseCase
	troubleShootingUC     *projectUC.TroubleShootingUseCase
	logger                logger.Logger
}

func NewProjectHandler(
	createUC *projectUC.CreateProjectUseCase,
	listUC *projectUC.ListProjectsUseCase,
	getUC *projectUC.GetProjectUseCase,
	updateUC *projectUC.UpdateProjectUseCase,
	deleteUC *projectUC.DeleteProjectUseCase,
	tsUC *projectUC.TroubleShootingUseCase,
	log logger.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		createProjectUseCase: createUC,
		listProjectsUseCase:  listUC,
		getProjectUseCase:    getUC,
		updateProjectUseCase: updateUC,
		deleteProjectUseCase: deleteUC,
		troubleShootingUC:    tsUC,
		logger:               log,
	}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.listProjectsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	p, err := h.getProjectUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(p))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	if isMultipart(c) {
		h.createProjectWithFiles(c)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.createProjectUseCase.Execute(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToProjectDTO(p))
}

// projectForm extracts the shared multipart fields of the create and update
// routes: the "project" JSON blob, the image parts, the thumbnail index, and
// the troubleshooting image parts with their positional indices.
func (h *ProjectHandler) projectForm(c *gin.Context) (projectUC.ProjectInput, projectUC.FileOptions, func(), error) {
	var opts projectUC.FileOptions
	noop := func() {}

	projectJSON := c.PostForm("project")
	if projectJSON == "" {
		return projectUC.ProjectInput{}, opts, noop, apperror.NewInvalidInput("'project' is required", nil)
	}
	var req ProjectRequest
	if err := json.Unmarshal([]byte(projectJSON), &req); err != nil {
		return projectUC.ProjectInput{}, opts, noop, apperror.NewInvalidInput("'project' field is not valid JSON", err)
	}
	in, err := req.ToInput()
	if err != nil {
		return projectUC.ProjectInput{}, opts, noop, err
	}

	if s := c.PostForm("thumbnailIndex"); s != "" {
		idx, err := strconv.Atoi(s)
		if err != nil {
			return projectUC.ProjectInput{}, opts, noop, apperror.NewInvalidInput("'thumbnailIndex' must be an integer", err)
		}
		opts.ThumbnailIndex = &idx
	}

	form, err := c.MultipartForm()
	if err != nil {
		return projectUC.ProjectInput{}, opts, noop, apperror.NewInvalidInput("invalid multipart form", err)
	}

	images, closeImages, err := openUploads(form.File["images"])
	if err != nil {
		return projectUC.ProjectInput{}, opts, noop, err
	}
	tsImages, closeTSImages, err := openUploads(form.File["troubleshootingImages"])
	if err != nil {
		closeImages()
		return projectUC.ProjectInput{}, opts, noop, err
	}

	opts.Images = images
	opts.TroubleshootingImages = tsImages
	opts.TroubleshootingIndices = form.Value["troubleshootingImageIndices"]

	cleanup := func() {
		closeImages()
		closeTSImages()
	}
	return in, opts, cleanup, nil
}

func (h *ProjectHandler) createProjectWithFiles(c *gin.Context) {
	in, opts, cleanup, err := h.projectForm(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer cleanup()

	p, err := h.createProjectUseCase.ExecuteWithFiles(c.Request.Context(), in, opts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToProjectDTO(p))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	if isMultipart(c) {
		h.updateProjectWithFiles(c)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.updateProjectUseCase.Execute(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(p))
}

func (h *ProjectHandler) updateProjectWithFiles(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	in, opts, cleanup, err := h.projectForm(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer cleanup()

	deletedImages := c.PostFormArray("deletedImages")

	p, err := h.updateProjectUseCase.ExecuteWithFiles(c.Request.Context(), id, in, opts, deletedImages)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(p))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.deleteProjectUseCase.Execute(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TroubleShooting endpoints

func (h *ProjectHandler) AddTroubleShooting(c *gin.Context) {
	projectID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if isMultipart(c) {
		in, upload, closeFn, err := troubleShootingForm(c)
		if err != nil {
			c.Error(err)
			return
		}
		defer closeFn()

		p, err := h.troubleShootingUC.AddWithImage(c.Request.Context(), projectID, in, upload)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, ToProjectDTO(p))
		return
	}

	var req TroubleShootingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.troubleShootingUC.Add(c.Request.Context(), projectID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(p))
}

func (h *ProjectHandler) UpdateTroubleShooting(c *gin.Context) {
	projectID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	tsID, err := parseID(c, "troubleShootingId")
	if err != nil {
		c.Error(err)
		return
	}

	if isMultipart(c) {
		in, upload, closeFn, err := troubleShootingForm(c)
		if err != nil {
			c.Error(err)
			return
		}
		defer closeFn()

		p, err := h.troubleShootingUC.UpdateWithImage(c.Request.Context(), projectID, tsID, in, upload)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, ToProjectDTO(p))
		return
	}

	var req TroubleShootingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.troubleShootingUC.Update(c.Request.Context(), projectID, tsID, req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(p))
}

func (h *ProjectHandler) DeleteTroubleShooting(c *gin.Context) {
	projectID, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	tsID, err := parseID(c, "troubleShootingId")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.troubleShootingUC.Delete(c.Request.Context(), projectID, tsID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProjectDTO(p))
}

// troubleShootingForm reads the multipart variant of the troubleshooting
// routes: title/description fields plus an optional image part.
func troubleShootingForm(c *gin.Context) (projectUC.TroubleShootingInput, *service.FileUpload, func(), error) {
	in := projectUC.TroubleShootingInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, func() {}, nil
		}
		return in, nil, func() {}, apperror.NewInvalidInput("invalid 'image' part", err)
	}

	upload, closeFn, err := openUpload(fileHeader)
	if err != nil {
		return in, nil, func() {}, err
	}
	return in, &upload, closeFn, nil
}
