package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

type CompanyHandler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

type updateCompanyRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	LogoURL string `json:"logo_url"`
}

func NewCompanyHandler(db *gorm.DB, recorder *audit.Recorder) *CompanyHandler {
	return &CompanyHandler{DB: db, Audit: recorder}
}

func (h *CompanyHandler) MyCompany(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var company models.Company
	if err := h.DB.First(&company, "id = ?", companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) UpdateMyCompany(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var company models.Company
	if err := h.DB.First(&company, "id = ?", companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	// Renames must not collide with another company's normalized name.
	newName := strings.TrimSpace(req.Name)
	normalized := models.NormalizeCompanyName(newName)
	if normalized != company.NormalizedName {
		var other models.Company
		if err := h.DB.Where("normalized_name = ? AND id <> ?", normalized, company.ID).First(&other).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "company name already taken"})
			return
		}
	}

	company.Name = newName
	company.NormalizedName = normalized
	company.Address = strings.TrimSpace(req.Address)
	company.Phone = strings.TrimSpace(req.Phone)
	company.LogoURL = strings.TrimSpace(req.LogoURL)

	if err := h.DB.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	userID, _ := currentUserID(c)
	h.Audit.Record(c, &userID, company.ID, audit.Event{
		Action:     "company_updated",
		Category:   audit.CategoryCompany,
		TargetID:   company.ID.String(),
		TargetType: "company",
	})

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) DeactivateMyCompany(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.DB.Model(&models.Company{}).Where("id = ?", companyID).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	userID, _ := currentUserID(c)
	h.Audit.Record(c, &userID, companyID, audit.Event{
		Action:     "company_deactivated",
		Category:   audit.CategoryCompany,
		TargetID:   companyID.String(),
		TargetType: "company",
	})

	c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
}
