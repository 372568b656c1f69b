package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/gamevault/internal/middleware"
	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/internal/repositories"
	"github.com/mroshb/gamevault/internal/security"
	"github.com/mroshb/gamevault/internal/services"
	"github.com/mroshb/gamevault/pkg/logger"
)

const transactionHistoryLimit = 100

// UserHandler serves registration, authentication and the account's own
// views.
type UserHandler struct {
	users            *services.UserService
	redemptions      *services.RedemptionService
	ownership        *repositories.OwnershipRepository
	userRepo         *repositories.UserRepository
	codeRepo         *repositories.CodeRepository
	jwtSecret        string
	requireValidCode bool
}

func NewUserHandler(
	users *services.UserService,
	redemptions *services.RedemptionService,
	ownership *repositories.OwnershipRepository,
	userRepo *repositories.UserRepository,
	codeRepo *repositories.CodeRepository,
	jwtSecret string,
	requireValidCode bool,
) *UserHandler {
	return &UserHandler{
		users:            users,
		redemptions:      redemptions,
		ownership:        ownership,
		userRepo:         userRepo,
		codeRepo:         codeRepo,
		jwtSecret:        jwtSecret,
		requireValidCode: requireValidCode,
	}
}

type registerRequest struct {
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required"`
	SecurityQuestion string `json:"securityQuestion" binding:"required"`
	SecurityAnswer   string `json:"securityAnswer" binding:"required"`
	VipCode          string `json:"vipCode"`
}

// Register creates an account. A VIP code may ride along; when the
// deployment does not require one, a failed code leaves the account
// standing and is reported in the response.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "username, password, securityQuestion and securityAnswer are required")
		return
	}

	username := security.SanitizeString(req.Username)
	if !security.ValidateUsername(username) {
		respondValidation(c, "username must be 3-64 characters of letters, digits, '_', '-' or '.'")
		return
	}
	question := security.SanitizeHTML(security.SanitizeString(req.SecurityQuestion))
	answer := security.SanitizeString(req.SecurityAnswer)
	vipCode := security.SanitizeString(req.VipCode)

	if h.requireValidCode && vipCode == "" {
		respondValidation(c, "a VIP code is required to register")
		return
	}

	user, err := h.users.Register(username, req.Password, question, answer)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"user": user.Sanitize()}

	if vipCode != "" {
		expiry, redeemErr := h.redemptions.RedeemAtRegistration(user.ID, vipCode, time.Now())
		switch {
		case redeemErr == nil:
			user.VipExpireAt = &expiry
			response["user"] = user.Sanitize()
			response["vipExpireAt"] = expiry
		case h.requireValidCode:
			// The account must not outlive its failed code.
			if delErr := h.users.DeleteUser(user.ID); delErr != nil {
				logger.Error("Failed to remove user after rejected registration code",
					"userID", user.ID, "error", delErr)
			}
			respondError(c, redeemErr)
			return
		default:
			logger.Warn("Registration VIP code rejected", "userID", user.ID)
			response["vipCodeError"] = "invalid or already used code"
		}
	}

	c.JSON(http.StatusCreated, response)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "username and password are required")
		return
	}

	user, err := h.users.Authenticate(security.SanitizeString(req.Username), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := security.GenerateJWT(user.ID, user.Username, user.IsAdmin, h.jwtSecret)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user.Sanitize()})
}

// SecurityQuestion returns the recovery question for a username.
func (h *UserHandler) SecurityQuestion(c *gin.Context) {
	username := security.SanitizeString(c.Query("username"))
	if username == "" {
		respondValidation(c, "username is required")
		return
	}

	question, err := h.users.GetSecurityQuestion(username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"securityQuestion": question})
}

type resetPasswordRequest struct {
	Username       string `json:"username" binding:"required"`
	SecurityAnswer string `json:"securityAnswer" binding:"required"`
	NewPassword    string `json:"newPassword" binding:"required"`
}

// ResetPassword replaces the password after checking the security answer.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "username, securityAnswer and newPassword are required")
		return
	}

	err := h.users.ResetPassword(
		security.SanitizeString(req.Username),
		security.SanitizeString(req.SecurityAnswer),
		req.NewPassword,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// Profile returns the caller's own account view.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.GetProfile(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Sanitize()})
}

type redeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemVip claims a VIP code for the caller.
func (h *UserHandler) RedeemVip(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "code is required")
		return
	}

	expiry, err := h.redemptions.RedeemVip(middleware.UserID(c), security.SanitizeString(req.Code), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vipExpireAt": expiry})
}

// RedeemPayment claims a payment code for the caller.
func (h *UserHandler) RedeemPayment(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "code is required")
		return
	}

	balance, err := h.redemptions.RedeemPayment(middleware.UserID(c), security.SanitizeString(req.Code), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": balance})
}

// OwnedGames lists the caller's purchase history.
func (h *UserHandler) OwnedGames(c *gin.Context) {
	records, err := h.ownership.ListByUser(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": records})
}

// PaymentHistory lists the caller's claimed payment codes and point
// transactions.
func (h *UserHandler) PaymentHistory(c *gin.Context) {
	userID := middleware.UserID(c)

	codes, err := h.codeRepo.ListUsedBy(models.CodeKindPayment, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	transactions, err := h.userRepo.GetTransactionHistory(userID, transactionHistoryLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"codes": codes, "transactions": transactions})
}
