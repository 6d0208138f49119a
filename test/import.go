package test

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// Multipart builds a multipart form body with the given fields and, if
// fileName is not empty, a file in the "file" field.
//
// The body is returned as a buffer and a map for the HTTP request headers
func Multipart(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, map[string]string) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	for name, value := range fields {
		require.Nil(t, mw.WriteField(name, value))
	}

	if fileName != "" {
		w, err := mw.CreateFormFile("file", fileName)
		require.Nil(t, err)

		_, err = w.Write(content)
		require.Nil(t, err)
	}

	require.Nil(t, mw.Close())

	return body, map[string]string{"Content-Type": mw.FormDataContentType()}
}

// Form builds an URL encoded form body.
func Form(fields map[string]string) (*bytes.Buffer, map[string]string) {
	values := url.Values{}
	for name, value := range fields {
		values.Set(name, value)
	}

	return bytes.NewBufferString(values.Encode()), map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
}
