package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sambung/server/internal/middleware"
	"sambung/server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5MB
	AllowedImageExts = ".jpg,.jpeg,.png,.gif,.webp"
	AllowedVideoExts = ".mp4,.webm,.mov"
)

// uploadError is a validation failure during file saving
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

// saveUpload validates and stores one uploaded file under the configured
// upload directory and returns its public URL.
func saveUpload(c *fiber.Ctx, file *multipart.FileHeader, fileType string) (string, error) {
	if file.Size > MaxFileSize {
		return "", &uploadError{
			status:  fiber.StatusBadRequest,
			message: fmt.Sprintf("File size exceeds limit of 5MB (uploaded: %.2fMB)", float64(file.Size)/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isAllowedExtension(ext, fileType) {
		return "", &uploadError{
			status:  fiber.StatusBadRequest,
			message: fmt.Sprintf("File extension %s not allowed for type %s", ext, fileType),
		}
	}

	uploadPath := filepath.Join(Cfg.UploadDir, fileType+"s")
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().Unix(), ext)
	if err := c.SaveFile(file, filepath.Join(uploadPath, filename)); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return fmt.Sprintf("/uploads/%ss/%s", fileType, filename), nil
}

// fileTypeOf maps an extension onto the media type tag, empty when neither
func fileTypeOf(ext string) string {
	switch {
	case strings.Contains(AllowedImageExts, ext):
		return "image"
	case strings.Contains(AllowedVideoExts, ext):
		return "video"
	default:
		return ""
	}
}

// isAllowedExtension checks if file extension is allowed for the given type
func isAllowedExtension(ext, fileType string) bool {
	if ext == "" {
		return false
	}
	switch fileType {
	case "image":
		return strings.Contains(AllowedImageExts, ext)
	case "video":
		return strings.Contains(AllowedVideoExts, ext)
	default:
		return false
	}
}

// UploadContent stores a media post: one or more image/video files plus a
// title and description. Each file is saved to blob storage and recorded as
// an opaque URL with a type tag.
func UploadContent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid multipart form",
		})
	}

	title := c.FormValue("title")
	description := c.FormValue("description")
	files := form.File["files"]

	if title == "" || description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Title and description are required",
		})
	}
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No files were uploaded",
		})
	}

	uploaded := make([]models.MediaFile, 0, len(files))
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		fileType := fileTypeOf(ext)
		if fileType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   fmt.Sprintf("File extension %s is not an image or video", ext),
			})
		}

		url, err := saveUpload(c, file, fileType)
		if err != nil {
			var ve *uploadError
			if errors.As(err, &ve) {
				return c.Status(ve.status).JSON(fiber.Map{
					"success": false,
					"error":   ve.message,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to save file",
			})
		}

		uploaded = append(uploaded, models.MediaFile{URL: url, Type: fileType})
	}

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid user ID",
		})
	}

	media, err := MediaDB.Insert(c.Context(), &models.Media{
		UserID:      userOID,
		Title:       title,
		Description: description,
		Files:       uploaded,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to store media",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    media,
	})
}

// GetUserContent returns the caller's media posts, newest first
func GetUserContent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	return listMedia(c, userID)
}

// GetUserMedia returns another user's media posts, newest first
func GetUserMedia(c *fiber.Ctx) error {
	return listMedia(c, c.Params("userId"))
}

func listMedia(c *fiber.Ctx, userID string) error {
	media, err := MediaDB.ListByUser(c.Context(), userID)
	if err != nil {
		return storeError(c, err)
	}
	if media == nil {
		media = []models.Media{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    media,
	})
}

// GetFile serves uploaded files
func GetFile(c *fiber.Ctx) error {
	fileType := c.Params("type")
	filename := filepath.Base(c.Params("filename"))

	if fileType != "images" && fileType != "videos" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid file type",
		})
	}

	filePath := filepath.Join(Cfg.UploadDir, fileType, filename)

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "File not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to get file info",
		})
	}

	c.Set("Content-Type", getContentType(strings.ToLower(filepath.Ext(filename))))
	c.Set("Content-Length", fmt.Sprintf("%d", fileInfo.Size()))

	if _, err := io.Copy(c.Response().BodyWriter(), file); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send file",
		})
	}
	return nil
}

// getContentType returns content type based on file extension
func getContentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	default:
		return "application/octet-stream"
	}
}
