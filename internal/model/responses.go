package model

// AccessToken struct holds the access token data
type AccessToken struct {
	Token string `json:"token"`
}

// JobseekerResponse holds the response data for jobseeker login or registration
type JobseekerResponse struct {
	User        JobseekerProfile `json:"user"`
	AccessToken string           `json:"access_token"`
}

// EmployerResponse holds the response data for employer login or registration
type EmployerResponse struct {
	User        EmployerProfile `json:"user"`
	AccessToken string          `json:"access_token"`
}

// AdminResponse holds the response data for admin login
type AdminResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
