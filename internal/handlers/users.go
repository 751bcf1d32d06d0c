package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/utils"
)

type UserHandler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

type createTechnicianRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

func NewUserHandler(db *gorm.DB, recorder *audit.Recorder) *UserHandler {
	return &UserHandler{DB: db, Audit: recorder}
}

// ListTechnicians returns the tech accounts in the caller's company.
func (h *UserHandler) ListTechnicians(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var technicians []models.User
	if err := h.DB.Where("company_id = ? AND role = ?", companyID, models.RoleTech).
		Order("name asc").Find(&technicians).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load technicians"})
		return
	}

	c.JSON(http.StatusOK, technicians)
}

// CreateTechnician creates a tech account directly, skipping the email
// invite round trip. Managers use this when onboarding a technician in
// person and handing over the credentials themselves.
func (h *UserHandler) CreateTechnician(c *gin.Context) {
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

	var req createTechnicianRequest
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

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
		return
	}

	technician := models.User{
		Email:        normalizedEmail,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		Role:         models.RoleTech,
		Phone:        strings.TrimSpace(req.Phone),
		CompanyID:    companyID,
	}
	if err := h.DB.Create(&technician).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.Audit.Record(c, &userID, companyID, audit.Event{
		Action:     "tech_created",
		Category:   audit.CategoryTechnician,
		TargetID:   technician.ID.String(),
		TargetType: "user",
		Details:    map[string]interface{}{"email": technician.Email},
	})

	c.JSON(http.StatusCreated, technician)
}

func (h *UserHandler) Get(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ? AND company_id = ?", userID, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
