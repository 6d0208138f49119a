package controllers

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/config"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/report"
	"github.com/wedding-ledger/backend/internal/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Flash message kinds
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Funcs returns the template functions the pages use.
func Funcs(cfg config.Config) template.FuncMap {
	zone := cfg.Zone
	if zone == nil {
		zone = time.UTC
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn().Str("locale", cfg.Locale).Err(err).Msg("unknown locale, using en")
		tag = language.English
	}
	printer := message.NewPrinter(tag)

	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return cfg.CurrencySymbol + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
		},
		"percent": func(d decimal.Decimal) string {
			return d.StringFixed(1) + "%"
		},
		"localtime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(zone).Format(types.DisplayLayout)
		},
		"deref": models.Value,
		"vendor": func(label string) string {
			if label == "" {
				return report.Placeholder
			}
			return label
		},
	}
}

// flash stores a message that is shown on the next rendered page.
func flash(c *gin.Context, kind, text string) {
	session := sessions.Default(c)
	session.AddFlash(text, kind)
	if err := session.Save(); err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("saving flash message")
	}
}

// flashes pops all messages of a kind.
func flashes(session sessions.Session, kind string) []string {
	var texts []string
	for _, f := range session.Flashes(kind) {
		if s, ok := f.(string); ok {
			texts = append(texts, s)
		}
	}
	return texts
}

// redirect sends the browser to path after a write.
func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// render renders a page. Every page shows the running total against
// the budget and the pending flash messages.
func (co Controller) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	total, err := co.Ledger.GrandTotal(c.Request.Context())
	if err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("computing total")
		code, name = status(err), "error"
		data = gin.H{"Error": errorMessage(err)}
	}

	data["TotalSpent"] = total
	data["Budget"] = co.Ledger.Settings().Budget
	data["BudgetPercent"] = co.Ledger.BudgetPercent(total)

	session := sessions.Default(c)
	data["Success"] = flashes(session, flashSuccess)
	data["Errors"] = flashes(session, flashError)
	if err := session.Save(); err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("clearing flash messages")
	}

	c.HTML(code, name, data)
}

// renderError renders the error page matching err.
func (co Controller) renderError(c *gin.Context, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	}

	if code == http.StatusNotFound {
		co.render(c, code, "not_found", gin.H{"Error": errorMessage(err)})
		return
	}

	co.render(c, code, "error", gin.H{"Error": errorMessage(err)})
}

// download sends a generated document as a file download.
func download(c *gin.Context, filename, contentType string, body *bytes.Buffer) {
	c.DataFromReader(http.StatusOK, int64(body.Len()), contentType, body, map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
	})
}
