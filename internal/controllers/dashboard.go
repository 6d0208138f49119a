package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard renders the dashboard.
func (co Controller) GetDashboard(c *gin.Context) {
	dashboard, err := co.Ledger.Dashboard(c.Request.Context())
	if err != nil {
		co.renderError(c, err)
		return
	}

	co.render(c, http.StatusOK, "dashboard", gin.H{
		"Dashboard": dashboard,
	})
}

// GetUpload sends a stored attachment.
func (co Controller) GetUpload(c *gin.Context) {
	name := c.Param("filename")
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}

	if !co.Store.Exists(name) {
		co.render(c, http.StatusNotFound, "not_found", gin.H{"Error": "there is no attachment named " + name})
		return
	}

	c.File(co.Store.Path(name))
}
