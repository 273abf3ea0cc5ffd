package models

type EmployeePermissions struct {
	EmployeeID  uint     `json:"employee_id"`
	BusinessID  uint     `json:"business_id"`
	Permissions []string `json:"permissions"`
}
