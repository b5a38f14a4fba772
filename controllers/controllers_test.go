package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/clinic-app/controllers/mocks"
	"github.com/meinhoongagan/clinic-app/utils"
)

func setupUploadApp(uploader utils.Uploader) *fiber.App {
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		url, err := UploadImage(c, uploader, "users")
		if err != nil {
			return UploadFailed(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "image": url})
	})
	return app
}

func formRequest(t *testing.T, withImage bool) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("name", "Asha"))
	if withImage {
		part, err := w.CreateFormFile("image", "me.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	uploader := new(mocks.Uploader)
	uploader.On("Upload", mock.Anything, mock.Anything, "users").Return("https://img.test/me.png", nil)
	app := setupUploadApp(uploader)

	resp, err := app.Test(formRequest(t, true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	uploader.AssertExpectations(t)
}

func TestUploadImageWithoutFile(t *testing.T) {
	uploader := new(mocks.Uploader)
	app := setupUploadApp(uploader)

	resp, err := app.Test(formRequest(t, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImageNotConfigured(t *testing.T) {
	resp, err := setupUploadApp(nil).Test(formRequest(t, true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUploadImageMalformedMultipart(t *testing.T) {
	uploader := new(mocks.Uploader)
	app := setupUploadApp(uploader)

	body := "--XYZ\r\nContent-Disposition: form-data; name=\"image\"; filename=\"me.png\"\r\n\r\npng-without-closing-boundary"
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=XYZ")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}
