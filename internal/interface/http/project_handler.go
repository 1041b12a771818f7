package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/interface/middleware"
	"github.com/oksasatya/projecthub/pkg/response"
)

// ProjectIDParam is the route parameter carrying the project id.
const ProjectIDParam = "projectID"

type ProjectHandler struct {
	Svc    *app.ProjectService
	Logger *logrus.Logger
}

func NewProjectHandler(svc *app.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

type billingRequest struct {
	Plan  string `json:"plan" binding:"omitempty,max=50"`
	Email string `json:"email" binding:"omitempty,email"`
}

type createProjectRequest struct {
	Name    string         `json:"name" binding:"required,max=100"`
	Billing billingRequest `json:"billing"`
}

type updateProjectRequest struct {
	Name    *string         `json:"name" binding:"omitempty,max=100"`
	Billing *billingRequest `json:"billing"`
}

type inviteRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Role  string `json:"role" binding:"omitempty,invite_role"`
}

// Create POST /api/projects; the caller becomes the owner.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), app.CreateProjectInput{
		Name:    req.Name,
		Billing: entity.Billing(req.Billing),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "project created", nil)
}

// Get returns the project with its members; owners and admins also see
// pending invites.
func (h *ProjectHandler) Get(c *gin.Context) {
	v, _ := c.Get(middleware.CtxProjectRoleKey)
	role, _ := v.(entity.RoleType)
	withInvites := role == entity.RoleOwner || role == entity.RoleAdmin
	d, err := h.Svc.Get(c.Request.Context(), c.Param(ProjectIDParam), withInvites)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "project fetched", map[string]any{"role": role})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := app.UpdateProjectInput{Name: req.Name}
	if req.Billing != nil {
		b := entity.Billing(*req.Billing)
		in.Billing = &b
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param(ProjectIDParam), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "project updated", nil)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param(ProjectIDParam)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "project deleted", nil)
}

// Invite POST /api/projects/:projectID/invites
func (h *ProjectHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Invite(c.Request.Context(), c.Param(ProjectIDParam), app.InviteInput{
		Email: req.Email,
		Role:  entity.RoleType(req.Role),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg := "member added"
	if res.Invite != nil {
		msg = "invite recorded"
	}
	response.Success(c, http.StatusCreated, res, msg, nil)
}

func (h *ProjectHandler) ListInvites(c *gin.Context) {
	invs, err := h.Svc.ListInvites(c.Request.Context(), c.Param(ProjectIDParam))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, invs, "invites fetched", map[string]any{"count": len(invs)})
}
