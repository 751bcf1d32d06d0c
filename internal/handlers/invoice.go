package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/audit"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/billing"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/pdf"
)

type InvoiceHandler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

var invoiceNumberPattern = regexp.MustCompile(`^\d{8}$`)

type invoiceRequest struct {
	InvoiceNumber string             `json:"invoice_number"`
	InvoiceDate   string             `json:"invoice_date"`
	CustomerName  string             `json:"customer_name"`
	CompanyName   string             `json:"company_name"`
	LineItems     []billing.LineItem `json:"line_items"`
	JobTicketIDs  []string           `json:"job_ticket_ids"`
	Notes         string             `json:"notes"`
	Status        string             `json:"status" binding:"omitempty,oneof=draft sent paid"`
}

func NewInvoiceHandler(db *gorm.DB, recorder *audit.Recorder) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Audit: recorder}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
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

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	// The client's number is a display preview. It is kept only when it
	// is well-formed and still free; otherwise the server assigns one.
	number, err := h.resolveInvoiceNumber(req.InvoiceNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign invoice number"})
		return
	}

	invoice := newInvoice(userID, companyID, number)
	if err := applyInvoiceRequest(&invoice, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Create(&invoice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.Audit.Record(c, &userID, companyID, audit.Event{
		Action:     "invoice_created",
		Category:   audit.CategoryInvoice,
		TargetID:   invoice.ID.String(),
		TargetType: "invoice",
	})

	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandler) List(c *gin.Context) {
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

	query := h.DB.Model(&models.Invoice{}).Where("company_id = ?", companyID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invoices"})
		return
	}

	var invoices []models.Invoice
	if err := query.Order("created_at desc").Offset(skip).Limit(limit).Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "total": total, "skip": skip, "limit": limit})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, ok := h.loadForCompany(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	invoice, ok := h.loadForCompany(c)
	if !ok {
		return
	}

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if err := applyInvoiceRequest(&invoice, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Save(&invoice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	userID, _ := currentUserID(c)
	h.Audit.Record(c, &userID, invoice.CompanyID, audit.Event{
		Action:     "invoice_updated",
		Category:   audit.CategoryInvoice,
		TargetID:   invoice.ID.String(),
		TargetType: "invoice",
	})

	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoice, ok := h.loadForCompany(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(&models.Invoice{}, "id = ?", invoice.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	userID, _ := currentUserID(c)
	h.Audit.Record(c, &userID, invoice.CompanyID, audit.Event{
		Action:     "invoice_deleted",
		Category:   audit.CategoryInvoice,
		TargetID:   invoice.ID.String(),
		TargetType: "invoice",
	})

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// CheckDuplicate reports whether an invoice number is already taken. The
// creation modal probes this before showing the generated number as final.
// Numbers are unique across the whole table, so the probe checks the same
// scope the unique index and resolveInvoiceNumber enforce.
func (h *InvoiceHandler) CheckDuplicate(c *gin.Context) {
	number := c.Param("number")
	if !invoiceNumberPattern.MatchString(number) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice number"})
		return
	}

	var count int64
	if err := h.DB.Model(&models.Invoice{}).
		Where("invoice_number = ?", number).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice_number": number, "is_duplicate": count > 0})
}

func (h *InvoiceHandler) Pdf(c *gin.Context) {
	invoice, ok := h.loadForCompany(c)
	if !ok {
		return
	}

	rendered, err := pdf.RenderInvoice(invoice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pdf rendering failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice-`+invoice.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", rendered)
}

func (h *InvoiceHandler) loadForCompany(c *gin.Context) (models.Invoice, bool) {
	var invoice models.Invoice

	companyID, ok := currentCompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return invoice, false
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return invoice, false
	}

	if err := h.DB.First(&invoice, "id = ? AND company_id = ?", invoiceID, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return invoice, false
	}

	return invoice, true
}

func (h *InvoiceHandler) resolveInvoiceNumber(requested string) (string, error) {
	if invoiceNumberPattern.MatchString(requested) {
		var count int64
		if err := h.DB.Model(&models.Invoice{}).Where("invoice_number = ?", requested).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return requested, nil
		}
	}

	return billing.UniqueNumber(time.Now(), func(number string) (bool, error) {
		var count int64
		err := h.DB.Model(&models.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error
		return count > 0, err
	})
}

var (
	errInvalidInvoiceDate = errors.New("invalid invoice_date")
	errInvalidTicketIDs   = errors.New("invalid job_ticket_ids")
)

// newInvoice seeds an invoice the way Create persists it: dated today,
// draft, attributed to the session user.
func newInvoice(userID, companyID uuid.UUID, number string) models.Invoice {
	return models.Invoice{
		UserID:        userID,
		CompanyID:     companyID,
		InvoiceNumber: number,
		InvoiceDate:   time.Now(),
		Status:        models.InvoiceStatusDraft,
		CreatedBy:     userID.String(),
	}
}

// applyInvoiceRequest writes the payload onto the invoice and recomputes
// the totals from the line items. The request type does not bind totals,
// so whatever the client computed never reaches this point.
func applyInvoiceRequest(invoice *models.Invoice, req invoiceRequest) error {
	if req.InvoiceDate != "" {
		parsed, err := time.Parse("2006-01-02", req.InvoiceDate)
		if err != nil {
			return errInvalidInvoiceDate
		}
		invoice.InvoiceDate = parsed
	}

	jobTicketIDs, err := marshalTicketIDs(req.JobTicketIDs)
	if err != nil {
		return errInvalidTicketIDs
	}

	totals := billing.Totals(req.LineItems)

	invoice.CustomerName = req.CustomerName
	invoice.CompanyName = req.CompanyName
	invoice.LineItems = models.LineItemList(req.LineItems)
	invoice.JobTicketIDs = jobTicketIDs
	invoice.Subtotal = totals.Subtotal
	invoice.ServiceFee = totals.ServiceFee
	invoice.Tax = totals.Tax
	invoice.Total = totals.Total
	invoice.Notes = req.Notes
	if req.Status != "" {
		invoice.Status = req.Status
	}
	return nil
}

func marshalTicketIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
