package dto

// CreateStudentRequest creates a student.
type CreateStudentRequest struct {
	Name     string `json:"name" binding:"required"`
	SchoolID string `json:"schoolId" binding:"required"`
}

// UpdateStudentRequest replaces the mutable student fields.
type UpdateStudentRequest struct {
	Name     string `json:"name" binding:"required"`
	SchoolID string `json:"schoolId" binding:"required"`
	Version  int    `json:"version" binding:"required,min=1"`
}

// CreateSchoolRequest creates a school.
type CreateSchoolRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateSchoolRequest replaces the mutable school fields.
type UpdateSchoolRequest struct {
	Name    string `json:"name" binding:"required"`
	Version int    `json:"version" binding:"required,min=1"`
}

// StudentListQuery filters student listings.
type StudentListQuery struct {
	PaginationRequest
	SchoolID       string `form:"schoolId"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
}
