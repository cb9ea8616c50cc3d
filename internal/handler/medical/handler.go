package medical

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/medical"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	svc      *medical.Service
	maxLimit int
}

func NewHandler(svc *medical.Service, maxLimit int) *Handler {
	return &Handler{svc: svc, maxLimit: maxLimit}
}

// RegisterRoutes gates by role; reads of a single record are left to the
// per-record policy in the service.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patientOnly := middleware.RequireRole(model.RolePatient)
	doctorOnly := middleware.RequireRole(model.RoleDoctor)

	medical := rg.Group("/medical")
	{
		medical.GET("/my-reports", patientOnly, h.MyReports)
		medical.GET("/my-prescriptions", patientOnly, h.MyPrescriptions)
		medical.POST("/reports", doctorOnly, h.CreateReport)
		medical.POST("/prescriptions", doctorOnly, h.CreatePrescription)
		medical.GET("/reports/:id", h.GetReport)
		medical.GET("/prescriptions/:id", h.GetPrescription)
	}
}

func (h *Handler) MyReports(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p := handler.Page(c, h.maxLimit)
	reports, total, err := h.svc.MyReports(c.Request.Context(), actor, p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "reports", reports, p, total)
}

func (h *Handler) MyPrescriptions(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p := handler.Page(c, h.maxLimit)
	prescriptions, total, err := h.svc.MyPrescriptions(c.Request.Context(), actor, p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "prescriptions", prescriptions, p, total)
}

func (h *Handler) CreateReport(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	report, err := h.svc.CreateReport(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, "Medical report created successfully", report)
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	rx, err := h.svc.CreatePrescription(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, "Prescription created successfully", rx)
}

func (h *Handler) GetReport(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := handler.ParseID(c, "id", "report")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	report, err := h.svc.GetReport(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, "", report)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := handler.ParseID(c, "id", "prescription")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rx, err := h.svc.GetPrescription(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, "", rx)
}
