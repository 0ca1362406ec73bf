package auth

type RegisterPayload struct {
	Identifier string `json:"identifier" validate:"required"`
}

type VerifyOTPPayload struct {
	Identifier string `json:"identifier" validate:"required"`
	OTP        string `json:"otp" validate:"required"`
}

type CompleteProfilePayload struct {
	Identifier string `json:"identifier" validate:"required"`
	Name       string `json:"name" validate:"required,max=200"`
	DOB        string `json:"dob" validate:"required,date"`
	Gender     string `json:"gender" validate:"required,max=50"`
}

type LoginPayload struct {
	Identifier string `json:"identifier" validate:"required"`
}
