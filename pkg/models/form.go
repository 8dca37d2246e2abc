package models

import "strings"

// ResourceRequest is one cloud resource request as submitted on the form.
type ResourceRequest struct {
	FullName    string `json:"full_name" form:"full_name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Company     string `json:"company" form:"company"`
	Designation string `json:"designation" form:"designation"`
}

// Normalize returns a copy with surrounding whitespace removed from every field.
func (r ResourceRequest) Normalize() ResourceRequest {
	return ResourceRequest{
		FullName:    strings.TrimSpace(r.FullName),
		Email:       strings.TrimSpace(r.Email),
		Phone:       strings.TrimSpace(r.Phone),
		Company:     strings.TrimSpace(r.Company),
		Designation: strings.TrimSpace(r.Designation),
	}
}

// MissingRequired lists the required fields that are empty.
func (r ResourceRequest) MissingRequired() []string {
	var missing []string
	if r.FullName == "" {
		missing = append(missing, "full_name")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Company == "" {
		missing = append(missing, "company")
	}
	if r.Designation == "" {
		missing = append(missing, "designation")
	}
	return missing
}

// PhoneOrDefault renders the optional phone for humans.
func (r ResourceRequest) PhoneOrDefault() string {
	if r.Phone == "" {
		return "Not provided"
	}
	return r.Phone
}

// SubmissionResponse is the JSON body returned by the request API.
type SubmissionResponse struct {
	Status        string `json:"status"`
	Stage         string `json:"stage,omitempty"`
	Message       string `json:"message"`
	Branch        string `json:"branch,omitempty"`
	BranchCreated bool   `json:"branch_created,omitempty"`
	Commit        string `json:"commit,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}
