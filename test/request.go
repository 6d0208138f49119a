package test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/wedding-ledger/backend/internal/controllers"
	"github.com/wedding-ledger/backend/internal/router"
)

// Router sets up the complete router for the controller. It is torn down
// when the test ends.
func Router(t *testing.T, co controllers.Controller) *gin.Engine {
	r, teardown, err := router.Config(co.Config)
	require.Nil(t, err, "Router could not be initialized")
	t.Cleanup(teardown)

	router.AttachRoutes(co, r.Group("/"))
	return r
}

// Request is a helper method to simplify making a HTTP request for tests.
func Request(t *testing.T, h http.Handler, method, reqURL string, body io.Reader, headers ...map[string]string) httptest.ResponseRecorder {
	if body == nil {
		body = new(bytes.Buffer)
	}

	req, err := http.NewRequest(method, reqURL, body)
	require.Nil(t, err)

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, req)

	return *recorder
}

// Cookies returns the headers to send the cookies set by the response
// with the next request.
func Cookies(r *httptest.ResponseRecorder) map[string]string {
	var cookies []string
	for _, c := range r.Result().Cookies() {
		cookies = append(cookies, c.Name+"="+c.Value)
	}

	return map[string]string{"Cookie": strings.Join(cookies, "; ")}
}

// AssertHTTPStatus verifies that the HTTP response status is correct
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
