package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/service"
	"storefront/internal/storage"
)

// openUpload opens the multipart "file" field. On failure the 400 response is written.
func openUpload(c *fiber.Ctx) (multipart.File, *multipart.FileHeader, bool, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, false, writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, false, writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	return f, fh, true, nil
}

// UploadProductImage godoc
// @Summary Upload an image and append it to the product
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Param file formData file true "image"
// @Success 201 {object} model.Product
// @Failure 415 {object} errorPayload
// @Router /admin/products/{id}/images [post]
func UploadProductImage(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		f, fh, ok, err := openUpload(c)
		if !ok {
			return err
		}
		defer f.Close()

		p, err := svc.UploadProductImage(c.UserContext(), id, f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
		if err != nil {
			return serviceError(c, err, "Failed to upload image")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UploadMedia godoc
// @Summary Upload a category or banner image
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param prefix formData string false "products, categories or banners"
// @Param file formData file true "image"
// @Success 201 {object} service.MediaObject
// @Router /admin/media [post]
func UploadMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, fh, ok, err := openUpload(c)
		if !ok {
			return err
		}
		defer f.Close()

		obj, err := svc.Upload(c.UserContext(), c.FormValue("prefix"), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
		if err != nil {
			return serviceError(c, err, "Failed to upload image")
		}
		return c.Status(fiber.StatusCreated).JSON(obj)
	}
}

// ServeMedia streams a stored object, answering 304 when If-None-Match lists its ETag.
func ServeMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("*")

		if inm := c.Get(fiber.HeaderIfNoneMatch); inm != "" {
			// A failed Stat falls through to Open, which reports the error.
			if info, err := svc.Stat(c.UserContext(), key); err == nil && etagMatches(inm, info.ETag) {
				setMediaHeaders(c, info)
				return c.SendStatus(fiber.StatusNotModified)
			}
		}

		r, info, err := svc.Open(c.UserContext(), key)
		if err != nil {
			return serviceError(c, err, "Failed to load media")
		}
		setMediaHeaders(c, info)
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		size := int(info.Size)
		if size <= 0 {
			size = -1
		}
		// fasthttp closes r once the body is written.
		return c.SendStream(r, size)
	}
}

// defaultMediaCacheControl covers objects stored without a Cache-Control of their own.
const defaultMediaCacheControl = "public, max-age=86400"

// setMediaHeaders sends the object's ETag and the Cache-Control it was uploaded with.
func setMediaHeaders(c *fiber.Ctx, info storage.ObjectInfo) {
	if info.ETag != "" {
		c.Set(fiber.HeaderETag, `"`+info.ETag+`"`)
	}
	cacheControl := info.CacheControl
	if cacheControl == "" {
		cacheControl = defaultMediaCacheControl
	}
	c.Set(fiber.HeaderCacheControl, cacheControl)
}

// etagMatches reports whether an If-None-Match header lists etag. Weak validators
// compare equal to strong ones, as RFC 9110 requires for GET.
func etagMatches(header, etag string) bool {
	if etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.Trim(strings.TrimPrefix(candidate, "W/"), `"`)
		if candidate == etag {
			return true
		}
	}
	return false
}
