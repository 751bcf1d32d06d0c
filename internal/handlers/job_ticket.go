package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/billing"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/crypto"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

type JobTicketHandler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

type jobTicketRequest struct {
	JobNumber        string  `json:"job_number"`
	CustomerName     string  `json:"customer_name"`
	Location         string  `json:"location"`
	WorkType         string  `json:"work_type"`
	Equipment        string  `json:"equipment"`
	WorkStartTime    string  `json:"work_start_time"`
	WorkEndTime      string  `json:"work_end_time"`
	WorkTotalHours   float64 `json:"work_total_hours"`
	TravelStartTime  string  `json:"travel_start_time"`
	TravelEndTime    string  `json:"travel_end_time"`
	TravelTotalHours float64 `json:"travel_total_hours"`
	TravelType       string  `json:"travel_type" binding:"omitempty,oneof=one_way round_trip"`
	PartsUsed        string  `json:"parts_used"`
	WorkDescription  string  `json:"work_description"`
	SubmittedBy      string  `json:"submitted_by"`
	Status           string  `json:"status" binding:"omitempty,oneof=draft submitted complete"`
}

type fieldSubmitRequest struct {
	jobTicketRequest
	CompanyName     string `json:"company_name" binding:"required"`
	WorkDescription string `json:"work_description" binding:"required"`
	SubmittedBy     string `json:"submitted_by" binding:"required"`
}

func NewJobTicketHandler(db *gorm.DB, recorder *audit.Recorder) *JobTicketHandler {
	return &JobTicketHandler{DB: db, Audit: recorder}
}

// Submit accepts a ticket from an unauthenticated technician in the
// field. The company is resolved by name; the ticket lands as submitted
// with a server-assigned ticket number.
func (h *JobTicketHandler) Submit(c *gin.Context) {
	var req fieldSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var company models.Company
	normalized := models.NormalizeCompanyName(req.CompanyName)
	if err := h.DB.Where("normalized_name = ? AND is_active = ?", normalized, true).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	ticket, err := h.ticketFromRequest(req.jobTicketRequest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket.CompanyID = company.ID
	ticket.WorkDescription = crypto.EncryptedString(req.WorkDescription)
	ticket.SubmittedBy = req.SubmittedBy
	ticket.Status = models.TicketStatusSubmitted

	number, err := h.uniqueTicketNumber()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign ticket number"})
		return
	}
	ticket.TicketNumber = number

	if err := h.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.Audit.Record(c, nil, company.ID, audit.Event{
		Action:     "ticket_submitted",
		Category:   audit.CategoryTicket,
		TargetID:   ticket.ID.String(),
		TargetType: "job_ticket",
	})

	c.JSON(http.StatusCreated, ticket)
}

func (h *JobTicketHandler) Create(c *gin.Context) {
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

	var req jobTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ticket, err := h.ticketFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket.UserID = &userID
	ticket.CompanyID = companyID
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusDraft
	}

	// Drafts stay unnumbered until they are submitted.
	if ticket.Status == models.TicketStatusSubmitted {
		number, err := h.uniqueTicketNumber()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign ticket number"})
			return
		}
		ticket.TicketNumber = number
	}

	if err := h.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *JobTicketHandler) List(c *gin.Context) {
	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	query := h.DB.Model(&models.JobTicket{}).Where("company_id = ?", companyID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Techs only see their own tickets; managers and admins see the
	// whole company.
	if currentRole(c) == models.RoleTech {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load job tickets"})
		return
	}

	var tickets []models.JobTicket
	if err := query.Order("created_at desc").Offset(skip).Limit(limit).Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load job tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_tickets": tickets, "total": total})
}

func (h *JobTicketHandler) Get(c *gin.Context) {
	ticket, ok := h.loadForCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *JobTicketHandler) Update(c *gin.Context) {
	ticket, ok := h.loadForCaller(c)
	if !ok {
		return
	}

	var req jobTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	updated, err := h.ticketFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldStatus := ticket.Status
	newStatus := updated.Status
	if newStatus == "" {
		newStatus = oldStatus
	}

	ticket.JobNumber = updated.JobNumber
	ticket.CustomerName = updated.CustomerName
	ticket.Location = updated.Location
	ticket.WorkType = updated.WorkType
	ticket.Equipment = updated.Equipment
	ticket.WorkStartTime = updated.WorkStartTime
	ticket.WorkEndTime = updated.WorkEndTime
	ticket.WorkTotalHours = updated.WorkTotalHours
	ticket.TravelStartTime = updated.TravelStartTime
	ticket.TravelEndTime = updated.TravelEndTime
	ticket.TravelTotalHours = updated.TravelTotalHours
	ticket.TravelType = updated.TravelType
	ticket.PartsUsed = updated.PartsUsed
	ticket.WorkDescription = updated.WorkDescription
	ticket.SubmittedBy = updated.SubmittedBy
	ticket.Status = newStatus

	if oldStatus == models.TicketStatusDraft && newStatus == models.TicketStatusSubmitted && ticket.TicketNumber == "" {
		number, err := h.uniqueTicketNumber()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign ticket number"})
			return
		}
		ticket.TicketNumber = number
	}

	if err := h.DB.Save(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *JobTicketHandler) Delete(c *gin.Context) {
	ticket, ok := h.loadForCaller(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(&models.JobTicket{}, "id = ?", ticket.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	userID, _ := currentUserID(c)
	h.Audit.Record(c, &userID, ticket.CompanyID, audit.Event{
		Action:     "ticket_deleted",
		Category:   audit.CategoryTicket,
		TargetID:   ticket.ID.String(),
		TargetType: "job_ticket",
	})

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// loadForCaller fetches the ticket from the path id and enforces company
// scoping plus tech-sees-own visibility. Writes the error response itself.
func (h *JobTicketHandler) loadForCaller(c *gin.Context) (models.JobTicket, bool) {
	var ticket models.JobTicket

	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return ticket, false
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return ticket, false
	}

	if err := h.DB.First(&ticket, "id = ? AND company_id = ?", ticketID, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job ticket not found"})
		return ticket, false
	}

	if currentRole(c) == models.RoleTech {
		userID, ok := currentUserID(c)
		if !ok || ticket.UserID == nil || *ticket.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return ticket, false
		}
	}

	return ticket, true
}

// ticketFromRequest maps the payload onto a model and recomputes the hour
// totals from the clock pairs. A client-sent total only survives when the
// matching pair is incomplete; malformed clock strings are rejected.
func (h *JobTicketHandler) ticketFromRequest(req jobTicketRequest) (models.JobTicket, error) {
	ticket := models.JobTicket{
		JobNumber:        req.JobNumber,
		CustomerName:     req.CustomerName,
		Location:         crypto.EncryptedString(req.Location),
		WorkType:         req.WorkType,
		Equipment:        req.Equipment,
		WorkStartTime:    req.WorkStartTime,
		WorkEndTime:      req.WorkEndTime,
		WorkTotalHours:   req.WorkTotalHours,
		TravelStartTime:  req.TravelStartTime,
		TravelEndTime:    req.TravelEndTime,
		TravelTotalHours: req.TravelTotalHours,
		TravelType:       req.TravelType,
		PartsUsed:        req.PartsUsed,
		WorkDescription:  crypto.EncryptedString(req.WorkDescription),
		SubmittedBy:      req.SubmittedBy,
		Status:           req.Status,
	}

	if hours, ok, err := billing.DurationHoursFromStrings(req.WorkStartTime, req.WorkEndTime); err != nil {
		return ticket, errors.New("invalid work time")
	} else if ok {
		ticket.WorkTotalHours = hours
	}

	if hours, ok, err := billing.DurationHoursFromStrings(req.TravelStartTime, req.TravelEndTime); err != nil {
		return ticket, errors.New("invalid travel time")
	} else if ok {
		ticket.TravelTotalHours = hours
	}

	return ticket, nil
}

func (h *JobTicketHandler) uniqueTicketNumber() (string, error) {
	return billing.UniqueNumber(time.Now(), func(number string) (bool, error) {
		var count int64
		err := h.DB.Model(&models.JobTicket{}).Where("ticket_number = ?", number).Count(&count).Error
		return count > 0, err
	})
}
