package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

type AuditHandler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

type auditLogRequest struct {
	Action      string                 `json:"action" binding:"required"`
	Category    string                 `json:"category" binding:"required"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details"`
	TargetID    string                 `json:"target_id"`
	TargetType  string                 `json:"target_type"`
}

func NewAuditHandler(db *gorm.DB, recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{DB: db, Audit: recorder}
}

// Log records a client-reported event under the caller's company.
func (h *AuditHandler) Log(c *gin.Context) {
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

	var req auditLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	h.Audit.Record(c, &userID, companyID, audit.Event{
		Action:      req.Action,
		Category:    req.Category,
		Description: req.Description,
		Details:     req.Details,
		TargetID:    req.TargetID,
		TargetType:  req.TargetType,
	})

	c.JSON(http.StatusOK, gin.H{"message": "audit event logged"})
}

func (h *AuditHandler) List(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query, err := h.filteredQuery(c, companyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load audit logs"})
		return
	}

	order := "timestamp desc"
	if c.DefaultQuery("sort_order", "desc") == "asc" {
		order = "timestamp asc"
	}

	var logs []models.AuditLog
	if err := query.Order(order).Offset((page - 1) * limit).Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Export streams the filtered audit trail as CSV.
func (h *AuditHandler) Export(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	query, err := h.filteredQuery(c, companyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var logs []models.AuditLog
	if err := query.Order("timestamp desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load audit logs"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="audit-logs.csv"`)
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{"timestamp", "action", "category", "description", "user_id", "target_type", "target_id", "ip_address", "details"})
	for _, entry := range logs {
		userID := ""
		if entry.UserID != nil {
			userID = entry.UserID.String()
		}
		_ = writer.Write([]string{
			entry.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			entry.Action,
			entry.Category,
			entry.Description,
			userID,
			entry.TargetType,
			entry.TargetID,
			entry.IPAddress,
			entry.Details,
		})
	}
	writer.Flush()
}

func (h *AuditHandler) filteredQuery(c *gin.Context, companyID interface{}) (*gorm.DB, error) {
	query := h.DB.Model(&models.AuditLog{}).Where("audit_logs.company_id = ?", companyID)

	if category := c.Query("category"); category != "" {
		query = query.Where("audit_logs.category = ?", category)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("audit_logs.action = ?", action)
	}
	if user := c.Query("user"); user != "" {
		pattern := "%" + user + "%"
		query = query.Joins("JOIN users ON users.id = audit_logs.user_id").
			Where("users.name LIKE ? OR users.email LIKE ?", pattern, pattern)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("audit_logs.description LIKE ? OR audit_logs.details LIKE ?", pattern, pattern)
	}

	if from := c.Query("date_from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, errInvalidDate
		}
		query = query.Where("audit_logs.timestamp >= ?", fromDate)
	}
	if to := c.Query("date_to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, errInvalidDate
		}
		query = query.Where("audit_logs.timestamp < ?", toDate.AddDate(0, 0, 1))
	}

	return query, nil
}

var errInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
