package handlers

import (
	"github.com/gin-gonic/gin"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/student"
	"kitstock/internal/infrastructure/http/v1/dto"
)

// StudentHandler serves students and schools.
type StudentHandler struct {
	*BaseHandler
	service *student.Service
}

// NewStudentHandler creates a student handler.
func NewStudentHandler(base *BaseHandler, service *student.Service) *StudentHandler {
	return &StudentHandler{BaseHandler: base, service: service}
}

// RegisterStudentRoutes registers student endpoints on the group.
func (h *StudentHandler) RegisterStudentRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.CreateStudent)
	rg.GET("", h.ListStudents)
	rg.GET("/:id", h.GetStudent)
	rg.PUT("/:id", h.UpdateStudent)
	rg.DELETE("/:id", h.DeleteStudent)
}

// RegisterSchoolRoutes registers school endpoints on the group.
func (h *StudentHandler) RegisterSchoolRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.CreateSchool)
	rg.GET("", h.ListSchools)
	rg.GET("/:id", h.GetSchool)
	rg.PUT("/:id", h.UpdateSchool)
	rg.DELETE("/:id", h.DeleteSchool)
}

// CreateStudent handles POST /students.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	schoolID, err := id.Parse(req.SchoolID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid schoolId").WithDetail("schoolId", req.SchoolID))
		return
	}

	st := entity.NewStudent(req.Name, schoolID)
	st.CreatedBy = h.GetUserID(c)
	st.UpdatedBy = st.CreatedBy

	if err := h.service.CreateStudent(c.Request.Context(), st); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, st.ID.String())
}

// GetStudent handles GET /students/:id.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	studentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	st, err := h.service.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}

// ListStudents handles GET /students.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var query dto.StudentListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	filter := student.ListFilter{
		Search:         query.Search,
		IncludeDeleted: query.IncludeDeleted,
		Limit:          query.Limit,
		Offset:         query.Offset,
	}
	if query.SchoolID != "" {
		schoolID, err := id.Parse(query.SchoolID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid schoolId").WithDetail("schoolId", query.SchoolID))
			return
		}
		filter.SchoolID = &schoolID
	}

	students, err := h.service.ListStudents(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: students, Limit: query.Limit, Offset: query.Offset})
}

// UpdateStudent handles PUT /students/:id.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	studentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	schoolID, err := id.Parse(req.SchoolID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid schoolId").WithDetail("schoolId", req.SchoolID))
		return
	}

	st, err := h.service.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	st.Name = req.Name
	st.SchoolID = schoolID
	st.Version = req.Version
	st.UpdatedBy = h.GetUserID(c)

	if err := h.service.UpdateStudent(c.Request.Context(), st); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}

// DeleteStudent handles DELETE /students/:id.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	studentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteStudent(c.Request.Context(), studentID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// CreateSchool handles POST /schools.
func (h *StudentHandler) CreateSchool(c *gin.Context) {
	var req dto.CreateSchoolRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sc := entity.NewSchool(req.Name)
	sc.CreatedBy = h.GetUserID(c)
	sc.UpdatedBy = sc.CreatedBy

	if err := h.service.CreateSchool(c.Request.Context(), sc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sc.ID.String())
}

// GetSchool handles GET /schools/:id.
func (h *StudentHandler) GetSchool(c *gin.Context) {
	schoolID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sc, err := h.service.GetSchool(c.Request.Context(), schoolID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sc)
}

// ListSchools handles GET /schools.
func (h *StudentHandler) ListSchools(c *gin.Context) {
	var query dto.StudentListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	schools, err := h.service.ListSchools(c.Request.Context(), student.ListFilter{
		Search:         query.Search,
		IncludeDeleted: query.IncludeDeleted,
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: schools, Limit: query.Limit, Offset: query.Offset})
}

// UpdateSchool handles PUT /schools/:id.
func (h *StudentHandler) UpdateSchool(c *gin.Context) {
	schoolID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSchoolRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sc, err := h.service.GetSchool(c.Request.Context(), schoolID)
	if err != nil {
		h.Error(c, err)
		return
	}

	sc.Name = req.Name
	sc.Version = req.Version
	sc.UpdatedBy = h.GetUserID(c)

	if err := h.service.UpdateSchool(c.Request.Context(), sc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sc)
}

// DeleteSchool handles DELETE /schools/:id.
func (h *StudentHandler) DeleteSchool(c *gin.Context) {
	schoolID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSchool(c.Request.Context(), schoolID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
