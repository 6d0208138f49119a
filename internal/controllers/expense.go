package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/wedding-ledger/backend/internal/ledger"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/types"
	"gorm.io/gorm"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func (co Controller) RegisterExpenseRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetExpenses)

	{
		r.GET("/new", co.GetExpenseForm)
		r.POST("/new", co.CreateExpense)
	}

	// Expense with ID
	{
		r.GET("/:id/edit", co.GetExpenseEditForm)
		r.POST("/:id/edit", co.UpdateExpense)
		r.POST("/:id/delete", co.DeleteExpense)
	}
}

// ExpenseQueryFilter are the query parameters of the expense list.
type ExpenseQueryFilter struct {
	Start       string `form:"start"`
	End         string `form:"end"`
	Category    string `form:"category"`
	Search      string `form:"search"`
	PaymentType string `form:"payment_type"`
}

// model parses the query parameters into a ledger filter.
func (f ExpenseQueryFilter) model(zone *time.Location) (ledger.Filter, error) {
	filter := ledger.Filter{
		Category:    strings.TrimSpace(f.Category),
		PaymentType: strings.TrimSpace(f.PaymentType),
		Search:      f.Search,
	}

	var err error
	if strings.TrimSpace(f.Start) != "" {
		filter.From, err = types.ParseDate("start", f.Start, zone)
		if err != nil {
			return ledger.Filter{}, err
		}
	}

	if strings.TrimSpace(f.End) != "" {
		filter.To, err = types.ParseDate("end", f.End, zone)
		if err != nil {
			return ledger.Filter{}, err
		}
	}

	return filter, nil
}

// ExpenseEditable is the expense form.
type ExpenseEditable struct {
	Date        string `form:"date" binding:"required"`
	Time        string `form:"time"`
	Amount      string `form:"amount" binding:"required"`
	Category    string `form:"category" binding:"required,max=80"`
	Subcategory string `form:"subcategory" binding:"max=80"`
	Vendor      string `form:"vendor" binding:"max=120"`
	Description string `form:"description" binding:"max=240"`
	PaymentMode string `form:"payment_mode" binding:"max=40"`
	PaymentType string `form:"payment_type" binding:"max=20"`
	Notes       string `form:"notes"`
}

// newExpenseEditable fills the form from a stored expense.
func newExpenseEditable(e models.Expense, zone *time.Location) ExpenseEditable {
	local := e.Date.In(zone)

	return ExpenseEditable{
		Date:        local.Format(types.DateLayout),
		Time:        local.Format(types.ClockLayout),
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Subcategory: models.Value(e.Subcategory),
		Vendor:      models.Value(e.Vendor),
		Description: models.Value(e.Description),
		PaymentMode: models.Value(e.PaymentMode),
		PaymentType: models.Value(e.PaymentType),
		Notes:       models.Value(e.Notes),
	}
}

// apply replaces all editable fields of the expense. The attachment
// is not touched.
func (f ExpenseEditable) apply(e *models.Expense, zone *time.Location) error {
	date, err := types.ParseDateTime(f.Date, f.Time, zone)
	if err != nil {
		return err
	}

	amount, err := types.ParseAmount(f.Amount)
	if err != nil {
		return err
	}

	e.Date = date
	e.Amount = amount
	e.Category = strings.TrimSpace(f.Category)
	e.Subcategory = models.Text(f.Subcategory)
	e.Vendor = models.Text(f.Vendor)
	e.Description = models.Text(f.Description)
	e.PaymentMode = models.Text(f.PaymentMode)
	e.PaymentType = models.Text(f.PaymentType)
	e.Notes = models.Text(f.Notes)

	return nil
}

// GetExpenses lists the expenses matching the query parameters.
func (co Controller) GetExpenses(c *gin.Context) {
	var query ExpenseQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.ShouldBindQuery(&query)

	filter, err := query.model(co.Config.Zone)
	if err != nil {
		co.renderError(c, err)
		return
	}

	listing, err := co.Ledger.List(c.Request.Context(), filter)
	if err != nil {
		co.renderError(c, err)
		return
	}

	categories, err := co.Ledger.Categories(c.Request.Context())
	if err != nil {
		co.renderError(c, err)
		return
	}

	co.render(c, http.StatusOK, "expenses", gin.H{
		"Listing":      listing,
		"Query":        query,
		"Categories":   categories,
		"PaymentTypes": co.Config.PaymentTypes,
	})
}

// GetExpenseForm renders an empty expense form.
func (co Controller) GetExpenseForm(c *gin.Context) {
	now := time.Now().In(co.Config.Zone)

	co.renderForm(c, http.StatusOK, models.Expense{}, ExpenseEditable{
		Date: now.Format(types.DateLayout),
		Time: now.Format(types.ClockLayout),
	}, "")
}

// GetExpenseEditForm renders the form for an existing expense.
func (co Controller) GetExpenseEditForm(c *gin.Context) {
	expense, ok := co.getExpense(c)
	if !ok {
		return
	}

	co.renderForm(c, http.StatusOK, expense, newExpenseEditable(expense, co.Config.Zone), "")
}

// CreateExpense stores a new expense from the form.
func (co Controller) CreateExpense(c *gin.Context) {
	co.saveExpense(c, models.Expense{})
}

// UpdateExpense replaces all fields of an existing expense with the form
// values. The attachment is kept unless a new file is uploaded.
func (co Controller) UpdateExpense(c *gin.Context) {
	expense, ok := co.getExpense(c)
	if !ok {
		return
	}

	co.saveExpense(c, expense)
}

// DeleteExpense deletes an expense.
func (co Controller) DeleteExpense(c *gin.Context) {
	expense, ok := co.getExpense(c)
	if !ok {
		return
	}

	err := co.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&expense).Error
	})
	if err != nil {
		co.renderError(c, err)
		return
	}

	flash(c, flashSuccess, "Deleted")
	redirect(c, "/expenses")
}

// getExpense loads the expense from the id path parameter. If that is not
// possible, the error page is rendered and ok is false.
func (co Controller) getExpense(c *gin.Context) (expense models.Expense, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		co.renderError(c, models.ErrNotFound)
		return models.Expense{}, false
	}

	expense, err = co.Ledger.Get(c.Request.Context(), uint(id))
	if err != nil {
		co.renderError(c, err)
		return models.Expense{}, false
	}

	return expense, true
}

// saveExpense applies the submitted form to the expense and stores it. On
// failure, the form is rendered again with the submitted values.
func (co Controller) saveExpense(c *gin.Context, expense models.Expense) {
	var form ExpenseEditable

	if err := c.ShouldBind(&form); err != nil {
		co.renderForm(c, status(err), expense, form, errorMessage(err))
		return
	}

	if err := form.apply(&expense, co.Config.Zone); err != nil {
		co.renderForm(c, status(err), expense, form, errorMessage(err))
		return
	}

	file, err := c.FormFile("file")
	switch {
	case err == nil:
		name, err := co.saveAttachment(file)
		if err != nil {
			co.renderForm(c, status(err), expense, form, errorMessage(err))
			return
		}
		expense.Attachment = &name

	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No upload, keep the current attachment

	default:
		co.renderForm(c, http.StatusBadRequest, expense, form, err.Error())
		return
	}

	err = co.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Save(&expense).Error
	})
	if err != nil {
		if status(err) == http.StatusInternalServerError {
			log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		}
		co.renderForm(c, status(err), expense, form, errorMessage(err))
		return
	}

	flash(c, flashSuccess, "Saved successfully")
	redirect(c, "/expenses")
}

func (co Controller) saveAttachment(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return co.Store.Save(file.Filename, f)
}

func (co Controller) renderForm(c *gin.Context, code int, expense models.Expense, form ExpenseEditable, errorText string) {
	action := "/expenses/new"
	if expense.ID != 0 {
		action = "/expenses/" + strconv.FormatUint(uint64(expense.ID), 10) + "/edit"
	}

	co.render(c, code, "form", gin.H{
		"Expense":      expense,
		"Form":         form,
		"Action":       action,
		"Error":        errorText,
		"Categories":   models.DefaultCategories,
		"PaymentModes": models.PaymentModes,
		"PaymentTypes": co.Config.PaymentTypes,
	})
}
