package leave

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type ReviewLeaveRequest struct {
	Status     string `json:"status" binding:"required"`
	ReviewNote string `json:"review_note"`
}

// LeaveFilter narrows the all-leaves listing. Empty fields match everything.
type LeaveFilter struct {
	Status    string
	LeaveType string
}

type LeaveResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	EmployeeEmail      string  `json:"employee_email,omitempty"`
	EmployeeDepartment string  `json:"employee_department,omitempty"`
	LeaveType          string  `json:"leave_type"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	NumberOfDays       int     `json:"number_of_days"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	ReviewedBy         *string `json:"reviewed_by,omitempty"`
	ReviewerName       string  `json:"reviewer_name,omitempty"`
	ReviewNote         string  `json:"review_note"`
	ReviewedAt         *string `json:"reviewed_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

type StatusStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// TypeStat aggregates approved requests for one leave category.
type TypeStat struct {
	LeaveType string `json:"leave_type"`
	Count     int64  `json:"count"`
	TotalDays int64  `json:"total_days"`
}

type LeaveStatsResponse struct {
	StatusStats StatusStats `json:"status_stats"`
	TypeStats   []TypeStat  `json:"type_stats"`
}
