package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskhive/internal/auth"
	"taskhive/internal/config"
	"taskhive/internal/mail"
	"taskhive/internal/middleware"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"
	"taskhive/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users    repository.UserRepositoryInterface
	mailer   mail.Mailer
	uploader storage.Uploader
	cfg      *config.Config
}

func NewAuthHandler(users repository.UserRepositoryInterface, mailer mail.Mailer, uploader storage.Uploader, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, mailer: mailer, uploader: uploader, cfg: cfg}
}

type RegisterRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required,min=3,max=13"`
	Password string `form:"password" binding:"required,min=3,max=13"`
	FullName string `form:"fullname" binding:"required"`
}

type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullname"`
	Avatar          string    `json:"avatar"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:              u.ID.String(),
		Email:           u.Email,
		Username:        u.Username,
		FullName:        u.FullName,
		Avatar:          u.Avatar,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// Register creates an unverified user, uploads the avatar and mails a
// single-use verification link. Only the token digest is stored.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}
	req.Email = strings.ToLower(req.Email)
	req.Username = strings.ToLower(req.Username)

	existing, err := h.users.FindByEmailOrUsername(c.Request.Context(), req.Email, req.Username)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if existing != nil {
		response.Abort(c, response.Conflict("User with this email or username already exists"))
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		response.Abort(c, response.BadRequest("avatar not uploaded"))
		return
	}
	avatarURL, err := h.uploader.Upload(avatarFile)
	if err != nil {
		response.Abort(c, response.BadRequest("avatar not uploaded"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Abort(c, err)
		return
	}

	token, err := auth.NewTemporaryToken(h.cfg.TempTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}

	user := &model.User{
		Email:                   req.Email,
		Username:                req.Username,
		FullName:                req.FullName,
		HashedPassword:          string(hash),
		Avatar:                  avatarURL,
		EmailVerificationToken:  &token.Digest,
		EmailVerificationExpiry: &token.ExpiresAt,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	link := fmt.Sprintf("%s/api/v1/user/verify-email?token=%s&email=%s", h.cfg.FrontendBaseURL, token.Raw, user.Email)
	if err := h.mailer.SendVerificationEmail(user.Email, user.Username, link); err != nil {
		response.Abort(c, response.NotImplemented("Could not send verification email"))
		return
	}

	response.OK(c, http.StatusCreated, toUserResponse(user), "User registered successfully. Please verify your email.")
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials, requires a verified email, and issues the
// session tokens as HttpOnly cookies. The refresh token is stored on
// the user row; a user has at most one active refresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}
	if req.Email == "" && req.Username == "" {
		response.Abort(c, response.BadRequest("email or username is required"))
		return
	}

	user, err := h.users.FindByEmailOrUsername(c.Request.Context(), strings.ToLower(req.Email), strings.ToLower(req.Username))
	if err != nil {
		response.Abort(c, err)
		return
	}
	if user == nil {
		response.Abort(c, response.Unauthorized("User not found"))
		return
	}
	if !user.IsEmailVerified {
		response.Abort(c, response.Unauthorized("User email is not verified"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		response.Abort(c, response.Unauthorized("Password incorrect"))
		return
	}

	accessToken, err := auth.GenerateAccessToken(user, h.cfg.AccessTokenSecret, h.cfg.AccessTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}
	refreshToken, err := auth.GenerateRefreshToken(user.ID, h.cfg.RefreshTokenSecret, h.cfg.RefreshTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}

	user.RefreshToken = &refreshToken
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	h.setSessionCookies(c, accessToken, refreshToken)
	response.OK(c, http.StatusOK, toUserResponse(user), "user logged in successfully")
}

// Logout clears the stored refresh token and both session cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	user.RefreshToken = nil
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	h.clearSessionCookies(c)
	response.OK(c, http.StatusOK, gin.H{}, "user logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshAccessToken issues a new access token when the presented
// refresh token is both cryptographically valid and equal to the one
// stored on the user record.
func (h *AuthHandler) RefreshAccessToken(c *gin.Context) {
	incoming, _ := c.Cookie("refreshToken")
	if incoming == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		response.Abort(c, response.Unauthorized("Refresh Token not received"))
		return
	}

	claims, err := auth.ParseRefreshToken(incoming, h.cfg.RefreshTokenSecret)
	if err != nil {
		response.Abort(c, response.Unauthorized("Invalid Refresh Token"))
		return
	}

	user, err := findUserByIDString(c, h.users, claims.UserID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if user == nil {
		response.Abort(c, response.Unauthorized("Invalid Refresh Token"))
		return
	}
	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		response.Abort(c, response.Unauthorized("Refresh Token is expired or used"))
		return
	}

	accessToken, err := auth.GenerateAccessToken(user, h.cfg.AccessTokenSecret, h.cfg.AccessTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}

	c.SetCookie("accessToken", accessToken, int(h.cfg.AccessTokenExpiry.Seconds()), "/", "", h.cfg.SecureCookies, true)
	response.OK(c, http.StatusOK, gin.H{"accessToken": accessToken}, "Access Token Refreshed")
}

// VerifyEmail redeems a verification link. The token is single-use: the
// stored digest is cleared on success.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	rawToken := c.Query("token")
	email := c.Query("email")
	if rawToken == "" || email == "" {
		response.Abort(c, response.BadRequest("Invalid verification link"))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(email))
	if err != nil {
		response.Abort(c, err)
		return
	}
	digest := auth.HashToken(rawToken)
	if user == nil || user.EmailVerificationToken == nil ||
		*user.EmailVerificationToken != digest ||
		user.EmailVerificationExpiry == nil ||
		user.EmailVerificationExpiry.Before(time.Now()) {
		response.Abort(c, response.BadRequest("Token is invalid or expired"))
		return
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpiry = nil
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{}, "Email verified successfully")
}

type resendVerificationRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResendVerificationEmail reissues the verification token for a user
// who missed the expiry window. Password-gated so the link cannot be
// requested for someone else's address.
func (h *AuthHandler) ResendVerificationEmail(c *gin.Context) {
	var req resendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		response.Abort(c, err)
		return
	}
	if user == nil {
		response.Abort(c, response.Unauthorized("User not found"))
		return
	}
	if user.IsEmailVerified {
		response.Abort(c, response.BadRequest("User email is already verified"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		response.Abort(c, response.Unauthorized("Password incorrect"))
		return
	}

	token, err := auth.NewTemporaryToken(h.cfg.TempTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}
	user.EmailVerificationToken = &token.Digest
	user.EmailVerificationExpiry = &token.ExpiresAt

	link := fmt.Sprintf("%s/api/v1/user/verify-email?token=%s&email=%s", h.cfg.FrontendBaseURL, token.Raw, user.Email)
	if err := h.mailer.SendVerificationEmail(user.Email, user.Username, link); err != nil {
		response.Abort(c, response.NotImplemented("Could not send verification email"))
		return
	}
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"username": user.Username}, "email sent successfully")
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordRequest mails a single-use reset link; the digest and
// expiry are stored on the user row.
func (h *AuthHandler) ForgotPasswordRequest(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		response.Abort(c, err)
		return
	}
	if user == nil {
		response.Abort(c, response.Unauthorized("cannot find user"))
		return
	}

	token, err := auth.NewTemporaryToken(h.cfg.TempTokenExpiry)
	if err != nil {
		response.Abort(c, err)
		return
	}

	link := fmt.Sprintf("%s/api/v1/user/reset-password?token=%s&email=%s", h.cfg.FrontendBaseURL, token.Raw, user.Email)
	if err := h.mailer.SendPasswordResetEmail(user.Email, user.Username, link); err != nil {
		response.Abort(c, response.NotImplemented("Could not send password reset email"))
		return
	}

	user.ForgotPasswordToken = &token.Digest
	user.ForgotPasswordExpiry = &token.ExpiresAt
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"email": user.Email}, fmt.Sprintf("Email sent to the email address: %s", user.Email))
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=3,max=13"`
}

// ResetPassword redeems a reset token and replaces the password. The
// active session is invalidated: older access tokens die at the auth
// middleware and the stored refresh token is cleared.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		response.Abort(c, err)
		return
	}
	if user == nil {
		response.Abort(c, response.Unauthorized("user not found"))
		return
	}

	digest := auth.HashToken(req.Token)
	if user.ForgotPasswordToken == nil || *user.ForgotPasswordToken != digest ||
		user.ForgotPasswordExpiry == nil || user.ForgotPasswordExpiry.Before(time.Now()) {
		response.Abort(c, response.Unauthorized("Link invalid or Expired"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Abort(c, err)
		return
	}

	now := time.Now()
	user.HashedPassword = string(hash)
	user.PasswordChangedAt = &now
	user.ForgotPasswordToken = nil
	user.ForgotPasswordExpiry = nil
	user.RefreshToken = nil
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Password reset Successful"}, "Success")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=3,max=13"`
}

// ChangePassword replaces the password for the authenticated user and
// forces a re-login by clearing the refresh token and both cookies.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.OldPassword)) != nil {
		response.Abort(c, response.Unauthorized("Existing Password does not match"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.Abort(c, err)
		return
	}

	now := time.Now()
	user.HashedPassword = string(hash)
	user.PasswordChangedAt = &now
	user.RefreshToken = nil
	if err := h.users.Save(c.Request.Context(), user); err != nil {
		response.Abort(c, err)
		return
	}

	h.clearSessionCookies(c)
	response.OK(c, http.StatusOK, gin.H{"email": user.Email, "username": user.Username},
		"Password Changed Successfully. Please login again")
}

// CurrentUser returns the authenticated user's profile.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}
	response.OK(c, http.StatusOK, toUserResponse(user), "Success")
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie("accessToken", accessToken, int(h.cfg.AccessTokenExpiry.Seconds()), "/", "", h.cfg.SecureCookies, true)
	c.SetCookie("refreshToken", refreshToken, int(h.cfg.RefreshTokenExpiry.Seconds()), "/", "", h.cfg.SecureCookies, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", h.cfg.SecureCookies, true)
	c.SetCookie("refreshToken", "", -1, "/", "", h.cfg.SecureCookies, true)
}
