package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/config"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/email"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/utils"
)

// InviteHandler runs the manager-controlled technician onboarding flow:
// create an invite, email the signed signup link, validate the token on
// the signup page, redeem it into a tech account.
type InviteHandler struct {
	DB    *gorm.DB
	Cfg   config.Config
	Audit *audit.Recorder
}

type createInviteRequest struct {
	TechName string `json:"tech_name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

type redeemInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func NewInviteHandler(db *gorm.DB, cfg config.Config, recorder *audit.Recorder) *InviteHandler {
	return &InviteHandler{DB: db, Cfg: cfg, Audit: recorder}
}

func (h *InviteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User
	if err := h.DB.Where("email = ?", normalizedEmail).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user with this email already exists"})
		return
	}

	var existingInvite models.TechInvite
	if err := h.DB.Where("email = ? AND company_id = ? AND status = ?",
		normalizedEmail, companyID, models.InviteStatusPending).First(&existingInvite).Error; err == nil {
		if existingInvite.IsValid(time.Now()) {
			c.JSON(http.StatusConflict, gin.H{"error": "pending invite already exists for this email"})
			return
		}
	}

	invite := models.TechInvite{
		TechName:  strings.TrimSpace(req.TechName),
		Email:     normalizedEmail,
		Phone:     strings.TrimSpace(req.Phone),
		CompanyID: companyID,
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.InviteHours) * time.Hour),
		CreatedBy: userID,
	}
	if err := h.DB.Create(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite creation failed"})
		return
	}

	token, err := utils.GenerateInviteToken(invite.ID.String(), companyID.String(), invite.TechName, invite.Email, h.Cfg.JwtSecret, h.Cfg.InviteHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	signupLink := h.Cfg.FrontendURL + "/signup-tech?token=" + url.QueryEscape(token)

	var company models.Company
	_ = h.DB.First(&company, "id = ?", companyID).Error
	if err := email.SendTechInvite(h.smtpConfig(), invite.Email, invite.TechName, company.Name, signupLink); err != nil {
		log.Printf("smtp send error: %v", err)
		if strings.EqualFold(h.Cfg.AppEnv, "production") {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "email failed"})
			return
		}
	}

	h.Audit.Record(c, &userID, companyID, audit.Event{
		Action:     "tech_invited",
		Category:   audit.CategoryTechnician,
		TargetID:   invite.ID.String(),
		TargetType: "tech_invite",
		Details:    map[string]interface{}{"email": invite.Email},
	})

	c.JSON(http.StatusCreated, gin.H{
		"invite_id":   invite.ID,
		"expires_at":  invite.ExpiresAt,
		"signup_link": signupLink,
	})
}

// Validate checks a signup token and returns the pre-fill data for the
// signup page. Public: the caller only holds the emailed link.
func (h *InviteHandler) Validate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	claims, err := utils.ParseInviteToken(token, h.Cfg.JwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "invalid or expired invite token"})
		return
	}

	invite, company, ok := h.loadInvite(c, claims)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":        true,
		"tech_name":    invite.TechName,
		"email":        invite.Email,
		"company_name": company.Name,
		"expires_at":   invite.ExpiresAt,
	})
}

// Redeem consumes a valid invite and creates the technician account.
func (h *InviteHandler) Redeem(c *gin.Context) {
	var req redeemInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	claims, err := utils.ParseInviteToken(req.Token, h.Cfg.JwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired invite token"})
		return
	}

	invite, _, ok := h.loadInvite(c, claims)
	if !ok {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", invite.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user with this email already exists"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
		return
	}

	user := models.User{
		Email:        invite.Email,
		PasswordHash: passwordHash,
		Name:         invite.TechName,
		Role:         models.RoleTech,
		Phone:        invite.Phone,
		CompanyID:    invite.CompanyID,
	}

	now := time.Now()
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Model(&models.TechInvite{}).Where("id = ?", invite.ID).Updates(map[string]interface{}{
			"status":  models.InviteStatusAccepted,
			"used_at": now,
		}).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redemption failed"})
		return
	}

	h.Audit.Record(c, &user.ID, invite.CompanyID, audit.Event{
		Action:     "tech_invite_redeemed",
		Category:   audit.CategoryTechnician,
		TargetID:   invite.ID.String(),
		TargetType: "tech_invite",
	})

	accessToken, err := utils.GenerateAccessToken(user.ID.String(), user.Role, user.CompanyID.String(), h.Cfg.JwtSecret, h.Cfg.JwtAccessMinutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	expiresAt := time.Now().Add(time.Duration(h.Cfg.JwtRefreshHours) * time.Hour)
	if err := h.DB.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: expiresAt,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"role":       user.Role,
			"company_id": user.CompanyID,
		},
	})
}

func (h *InviteHandler) List(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var invites []models.TechInvite
	if err := h.DB.Where("company_id = ?", companyID).Order("created_at desc").Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invites"})
		return
	}

	// Surface stale pending invites as expired without rewriting rows.
	now := time.Now()
	for i := range invites {
		if invites[i].Status == models.InviteStatusPending && invites[i].IsExpired(now) {
			invites[i].Status = models.InviteStatusExpired
		}
	}

	c.JSON(http.StatusOK, invites)
}

func (h *InviteHandler) Cancel(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var invite models.TechInvite
	if err := h.DB.First(&invite, "id = ? AND company_id = ?", inviteID, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
		return
	}
	if invite.Status != models.InviteStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "invite is not pending"})
		return
	}

	if err := h.DB.Model(&models.TechInvite{}).Where("id = ?", invite.ID).
		Update("status", models.InviteStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	userID, _ := currentUserID(c)
	h.Audit.Record(c, &userID, companyID, audit.Event{
		Action:     "tech_invite_cancelled",
		Category:   audit.CategoryTechnician,
		TargetID:   invite.ID.String(),
		TargetType: "tech_invite",
	})

	c.JSON(http.StatusOK, gin.H{"message": "cancelled"})
}

// loadInvite resolves the claims against the database and enforces
// pending-and-unexpired. Writes the error response itself.
func (h *InviteHandler) loadInvite(c *gin.Context, claims *utils.InviteClaims) (models.TechInvite, models.Company, bool) {
	var invite models.TechInvite
	var company models.Company

	if err := h.DB.First(&invite, "id = ? AND company_id = ?", claims.InviteID, claims.CompanyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
		return invite, company, false
	}

	now := time.Now()
	if !invite.IsValid(now) {
		reason := invite.Status
		if invite.Status == models.InviteStatusPending && invite.IsExpired(now) {
			reason = models.InviteStatusExpired
		}
		c.JSON(http.StatusGone, gin.H{"error": "invite is " + reason})
		return invite, company, false
	}

	_ = h.DB.First(&company, "id = ?", invite.CompanyID).Error
	return invite, company, true
}

func (h *InviteHandler) smtpConfig() email.Config {
	return email.Config{
		Host:     h.Cfg.SmtpHost,
		Port:     h.Cfg.SmtpPort,
		Username: h.Cfg.SmtpUser,
		Password: h.Cfg.SmtpPass,
		From:     h.Cfg.SmtpFrom,
	}
}
