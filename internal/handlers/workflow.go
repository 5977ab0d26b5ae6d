package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/repos"
	"github.com/vardkurs/coursegen-backend/internal/types"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

// WorkflowHandler exposes the course production pipeline: course CRUD,
// step generation, navigation, and the export track.
type WorkflowHandler struct {
	log     *logger.Logger
	manager *workflow.Manager
	courses repos.CourseRepo
}

func NewWorkflowHandler(baseLog *logger.Logger, manager *workflow.Manager, courses repos.CourseRepo) *WorkflowHandler {
	return &WorkflowHandler{
		log:     baseLog.With("handler", "WorkflowHandler"),
		manager: manager,
		courses: courses,
	}
}

type createCourseRequest struct {
	Title    string                   `json:"title"`
	Language string                   `json:"language"`
	Tone     string                   `json:"tone"`
	Settings *workflow.CourseSettings `json:"settings"`
}

func (h *WorkflowHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	settings := workflow.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	if req.Language != "" {
		settings.Language = req.Language
	}
	if req.Tone != "" {
		settings.Tone = req.Tone
	}

	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		h.log.Error("Failed to encode course settings", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	course := &types.Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Language:    settings.Language,
		Tone:        settings.Tone,
		CurrentStep: string(workflow.StepTitle),
		Settings:    datatypes.JSON(settingsJSON),
	}
	created, err := h.courses.Create(c.Request.Context(), nil, course)
	if err != nil {
		h.log.Error("Failed to create course", "error", err)
		RespondError(c, http.StatusInternalServerError, "db_error", err)
		return
	}

	orch := h.manager.Create(created.ID, settings)
	if req.Title != "" {
		if err := orch.SetTitle(req.Title); err != nil {
			h.log.Warn("Failed to seed course title", "course_id", created.ID, "error", err)
		}
	}

	RespondOK(c, gin.H{
		"course":   created,
		"workflow": orch.Snapshot(),
	})
}

func (h *WorkflowHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("Failed to list courses", "error", err)
		RespondError(c, http.StatusInternalServerError, "db_error", err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

func (h *WorkflowHandler) GetCourse(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	course, err := h.courses.GetByID(c.Request.Context(), nil, courseID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	orch := h.manager.GetOrCreate(courseID)
	RespondOK(c, gin.H{
		"course":   course,
		"workflow": orch.Snapshot(),
	})
}

func (h *WorkflowHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	if err := h.courses.SoftDelete(c.Request.Context(), nil, courseID); err != nil {
		h.log.Error("Failed to delete course", "course_id", courseID, "error", err)
		RespondError(c, http.StatusInternalServerError, "db_error", err)
		return
	}
	h.manager.Remove(courseID)
	RespondOK(c, gin.H{"deleted": true})
}

func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	orch := h.manager.GetOrCreate(courseID)
	RespondOK(c, orch.Snapshot())
}

func (h *WorkflowHandler) GenerateStep(c *gin.Context) {
	h.runStep(c, false)
}

func (h *WorkflowHandler) RegenerateStep(c *gin.Context) {
	h.runStep(c, true)
}

func (h *WorkflowHandler) runStep(c *gin.Context, regen bool) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	step := workflow.Step(c.Param("step"))

	var req workflow.GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}

	orch := h.manager.GetOrCreate(courseID)
	var err error
	if regen {
		err = orch.Regenerate(c.Request.Context(), step, req)
	} else {
		err = orch.Generate(c.Request.Context(), step, req)
	}
	if err != nil {
		h.log.Error("Step generation failed", "course_id", courseID, "step", step, "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, orch.Snapshot())
}

func (h *WorkflowHandler) Advance(c *gin.Context) {
	h.control(c, func(orch *workflow.Orchestrator) error { return orch.Advance() })
}

type gotoRequest struct {
	Step string `json:"step"`
}

func (h *WorkflowHandler) GoTo(c *gin.Context) {
	var req gotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.control(c, func(orch *workflow.Orchestrator) error {
		return orch.GoTo(workflow.Step(req.Step))
	})
}

func (h *WorkflowHandler) SkipStep(c *gin.Context) {
	step := workflow.Step(c.Param("step"))
	h.control(c, func(orch *workflow.Orchestrator) error { return orch.Skip(step) })
}

func (h *WorkflowHandler) Reset(c *gin.Context) {
	h.control(c, func(orch *workflow.Orchestrator) error {
		orch.Reset()
		return nil
	})
}

type selectTitleRequest struct {
	SuggestionID string `json:"suggestion_id"`
	Title        string `json:"title"`
}

// SelectTitle accepts either a generated suggestion id or a custom title.
func (h *WorkflowHandler) SelectTitle(c *gin.Context) {
	var req selectTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.control(c, func(orch *workflow.Orchestrator) error {
		if req.SuggestionID != "" {
			return orch.SelectTitle(req.SuggestionID)
		}
		return orch.SetTitle(req.Title)
	})
}

func (h *WorkflowHandler) UpdateSettings(c *gin.Context) {
	var settings workflow.CourseSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.control(c, func(orch *workflow.Orchestrator) error {
		orch.UpdateSettings(settings)
		return nil
	})
}

func (h *WorkflowHandler) UpdateVideoSettings(c *gin.Context) {
	var vs workflow.VideoSettings
	if err := c.ShouldBindJSON(&vs); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.control(c, func(orch *workflow.Orchestrator) error {
		orch.SetVideoSettings(vs)
		return nil
	})
}

func (h *WorkflowHandler) PollVideos(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	orch := h.manager.GetOrCreate(courseID)
	if err := orch.PollVideos(c.Request.Context()); err != nil {
		h.log.Error("Video poll failed", "course_id", courseID, "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, orch.Snapshot())
}

func (h *WorkflowHandler) StartExport(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	var req workflow.GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	orch := h.manager.GetOrCreate(courseID)
	if err := orch.StartExport(c.Request.Context(), req); err != nil {
		h.log.Error("Export start failed", "course_id", courseID, "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, orch.Snapshot().Presenton)
}

func (h *WorkflowHandler) PollExport(c *gin.Context) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	orch := h.manager.GetOrCreate(courseID)
	if err := orch.PollExport(c.Request.Context()); err != nil {
		h.log.Error("Export poll failed", "course_id", courseID, "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, orch.Snapshot().Presenton)
}

// control runs one navigation or settings operation and responds with the
// refreshed workflow snapshot.
func (h *WorkflowHandler) control(c *gin.Context, op func(orch *workflow.Orchestrator) error) {
	courseID, ok := h.courseID(c)
	if !ok {
		return
	}
	orch := h.manager.GetOrCreate(courseID)
	if err := op(orch); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, orch.Snapshot())
}

func (h *WorkflowHandler) courseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return uuid.Nil, false
	}
	return id, true
}
