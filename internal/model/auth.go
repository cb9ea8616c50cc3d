package model

// RegisterRequest is the body of POST /auth/register. The doctor fields are
// only read when Role is doctor.
type RegisterRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=6"`
	FirstName   string   `json:"firstName" binding:"required,max=100"`
	LastName    string   `json:"lastName" binding:"required,max=100"`
	Role        Role     `json:"role" binding:"required,oneof=admin doctor patient"`
	Phone       string   `json:"phone" binding:"max=30"`
	DateOfBirth *Date    `json:"dateOfBirth"`
	Gender      string   `json:"gender" binding:"omitempty,oneof=male female other"`
	Address     *Address `json:"address"`

	Specialization    string `json:"specialization"`
	LicenseNumber     string `json:"licenseNumber"`
	Department        string `json:"department"`
	YearsOfExperience int    `json:"yearsOfExperience" binding:"gte=0"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}

// ProfileResponse is returned by GET /auth/profile. At most one of the
// profiles is set, matching the account role.
type ProfileResponse struct {
	User           *Account        `json:"user"`
	DoctorProfile  *DoctorProfile  `json:"doctorProfile,omitempty"`
	PatientProfile *PatientProfile `json:"patientProfile,omitempty"`
}
