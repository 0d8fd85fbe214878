package auth

// LoginRequest is accepted by the login endpoint. Identifier is a username or an email.
type LoginRequest struct {
	Identifier string `json:"identifier" example:"admin"`
	Password   string `json:"password" example:"long-enough-pw"`
}

// LoginUser is the account summary returned on login
type LoginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

// LoginResponse carries the issued token pair
type LoginResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    *LoginUser `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new access token
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token
type RefreshResponse struct {
	Access string `json:"access"`
}

// ForgotPasswordRequest starts password recovery
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"admin@example.com"`
}

// VerifyOTPRequest checks a mailed code
type VerifyOTPRequest struct {
	Email string `json:"email" example:"admin@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

// VerifyOTPResponse carries the signed token that authorizes a reset
type VerifyOTPResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token"`
}

// ResetPasswordRequest sets a new password with a reset token
type ResetPasswordRequest struct {
	ResetToken      string `json:"reset_token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePasswordRequest replaces the signed-in user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
