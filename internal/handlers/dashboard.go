package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var technicianCount int64
	_ = h.DB.Model(&models.User{}).Where("company_id = ? AND role = ?", companyID, models.RoleTech).Count(&technicianCount).Error

	var ticketCount int64
	_ = h.DB.Model(&models.JobTicket{}).Where("company_id = ?", companyID).Count(&ticketCount).Error

	var invoiceCount int64
	_ = h.DB.Model(&models.Invoice{}).Where("company_id = ?", companyID).Count(&invoiceCount).Error

	var revenue float64
	_ = h.DB.Model(&models.Invoice{}).
		Where("company_id = ? AND status = ?", companyID, models.InvoiceStatusPaid).
		Select("COALESCE(SUM(total),0)").Scan(&revenue).Error

	var todayTickets int64
	_ = h.DB.Model(&models.JobTicket{}).
		Where("company_id = ? AND created_at >= ?", companyID, startOfDay(time.Now())).
		Count(&todayTickets).Error

	c.JSON(http.StatusOK, gin.H{
		"technicians":   technicianCount,
		"job_tickets":   ticketCount,
		"invoices":      invoiceCount,
		"revenue":       revenue,
		"today_tickets": todayTickets,
		"currency":      "USD",
	})
}

// startOfDay returns local midnight for the given instant. Truncate would
// snap to the UTC day boundary instead.
func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
