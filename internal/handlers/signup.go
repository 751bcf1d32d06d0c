package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/config"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/utils"
)

// SignupHandler creates manager accounts together with their company.
// Technicians never sign up here; they arrive through invites.
type SignupHandler struct {
	DB    *gorm.DB
	Cfg   config.Config
	Audit *audit.Recorder
}

type managerSignupRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Name           string `json:"name" binding:"required,min=2"`
	Phone          string `json:"phone"`
	CompanyName    string `json:"company_name" binding:"required,min=2"`
	CompanyAddress string `json:"company_address"`
	CompanyPhone   string `json:"company_phone"`
}

func NewSignupHandler(db *gorm.DB, cfg config.Config, recorder *audit.Recorder) *SignupHandler {
	return &SignupHandler{DB: db, Cfg: cfg, Audit: recorder}
}

func (h *SignupHandler) ManagerSignup(c *gin.Context) {
	var req managerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := h.DB.Where("email = ?", normalizedEmail).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	normalizedCompany := models.NormalizeCompanyName(req.CompanyName)
	if normalizedCompany == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company name"})
		return
	}
	var existingCompany models.Company
	if err := h.DB.Where("normalized_name = ?", normalizedCompany).First(&existingCompany).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "company name already taken"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
		return
	}

	company := models.Company{
		Name:           strings.TrimSpace(req.CompanyName),
		NormalizedName: normalizedCompany,
		Address:        strings.TrimSpace(req.CompanyAddress),
		Phone:          strings.TrimSpace(req.CompanyPhone),
		IsActive:       true,
	}
	user := models.User{
		Email:        normalizedEmail,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         models.RoleManager,
		Phone:        strings.TrimSpace(req.Phone),
	}

	// Company and owning manager are created atomically so a failed user
	// insert never leaves an orphan company squatting on the name.
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		user.CompanyID = company.ID
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		company.CreatedBy = &user.ID
		return tx.Model(&models.Company{}).Where("id = ?", company.ID).Update("created_by", user.ID).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	h.Audit.Record(c, &user.ID, company.ID, audit.Event{
		Action:     "manager_signup",
		Category:   audit.CategoryCompany,
		TargetID:   company.ID.String(),
		TargetType: "company",
	})

	accessToken, err := utils.GenerateAccessToken(user.ID.String(), user.Role, company.ID.String(), h.Cfg.JwtSecret, h.Cfg.JwtAccessMinutes)
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
			"company_id": company.ID,
		},
		"company": company,
	})
}

func (h *SignupHandler) CheckCompanyAvailability(c *gin.Context) {
	name := c.Param("name")
	normalized := models.NormalizeCompanyName(name)
	if normalized == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company name"})
		return
	}

	var company models.Company
	err := h.DB.Where("normalized_name = ?", normalized).First(&company).Error
	c.JSON(http.StatusOK, gin.H{
		"company_name": name,
		"available":    err != nil,
	})
}
