// Package file provides HTTP handlers for file-related operations.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

// Object name prefixes in the storage bucket, shared with the orphan sweep
// in cmd/storage-gc.
const (
	ResumeObjectPrefix = "resumes"
	LogoObjectPrefix   = "logos"
)

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

// UploadResume handles uploading a resume file for a jobseeker and updating
// their profile in the database.
// @Summary Upload resume file for jobseeker
// @Description Only files smaller than 10 MB with .pdf extension are permitted
// @Tags File
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Upload your resume file"
// @Success 200 {object} model.JobseekerProfile "Successfully upload resume"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as jobseeker"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobseeker/profile/resume [post]
func (jc *FileController) UploadResume(c *gin.Context) {

	var seeker = model.JobseekerProfile{}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Resume is loaded so a re-upload replaces the existing row and its object
	if err := jc.DB.Preload("User").Preload("Resume").Where("user_id = ?", user.ID.String()).First(&seeker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	fileBytes, extension, ok := jc.readUpload(c, "resume", map[string]bool{".pdf": true})
	if !ok {
		return
	}

	if err := jc.persistFileData(&seeker.Resume, fileBytes, extension, ResumeObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&seeker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, seeker)
}

// UploadLogo handles uploading an employer's company logo.
// @Summary Upload logo file for employer
// @Description Only files smaller than 10 MB with .jpg, .jpeg, or .png extension are permitted
// @Tags File
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param logo formData file true "Upload your logo file"
// @Success 200 {object} model.EmployerProfile "Successfully upload logo"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /employer/profile/logo [post]
func (jc *FileController) UploadLogo(c *gin.Context) {

	var employer = model.EmployerProfile{}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := jc.DB.Preload("User").Preload("Logo").Where("user_id = ?", user.ID.String()).First(&employer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	fileBytes, extension, ok := jc.readUpload(c, "logo", allowed)
	if !ok {
		return
	}

	if err := jc.persistFileData(&employer.Logo, fileBytes, extension, LogoObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store logo: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&employer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, employer)
}

// readUpload pulls the named multipart file out of the request and validates
// its extension. On failure the response has already been written.
func (jc *FileController) readUpload(c *gin.Context, field string, allowedExtensions map[string]bool) ([]byte, string, bool) {
	rawFile, err := c.FormFile(field)
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return nil, "", false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return nil, "", false
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return nil, "", false
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return nil, "", false
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return nil, "", false
	}

	return fileBytes, extension, true
}

// GetFile retrieves a file from the database and sends it as a downloadable
// attachment in the response.
// @Summary Retrieve downloadable attachment
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of wanted file"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given file id not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /file/{id} [get]
func (jc *FileController) GetFile(c *gin.Context) {
	id := c.Param("id")

	file, err := database.FindByID[model.File](jc.DB.DB, id)
	if err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	jc.writeFileResponse(c, &file)
}

func (jc *FileController) writeFileResponse(c *gin.Context, file *model.File) {
	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+fmt.Sprint(file.ID)+file.Extension)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")

	if file.StorageObjectName != nil {
		if jc.Storage == nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Cloud storage is disabled while the requested file is stored remotely",
			})
			return
		}
		reader, size, err := jc.Storage.DownloadFile(*file.StorageObjectName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to download file from storage: %s", err.Error()),
			})
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Printf("failed to close storage reader: %v", err)
			}
		}()

		if size > 0 {
			c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
		}
		if _, err := io.Copy(c.Writer, reader); err != nil {
			jc.handleWriterError(c, err)
		}
		return
	}

	c.Writer.Header().Set("Content-Length", fmt.Sprint(len(file.Content)))
	if _, err := c.Writer.Write(file.Content); err != nil {
		jc.handleWriterError(c, err)
	}
}

func (jc *FileController) handleWriterError(c *gin.Context, _ error) {
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}

func (jc *FileController) persistFileData(file *model.File, fileBytes []byte, extension, prefix string) error {
	file.Extension = extension
	if jc.Storage == nil {
		file.Content = fileBytes
		file.StorageObjectName = nil
		return nil
	}

	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extension)
	if err := jc.Storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
		return err
	}

	// a re-upload orphans the previous object, drop it from the bucket
	if file.StorageObjectName != nil {
		if err := jc.Storage.DeleteFile(*file.StorageObjectName); err != nil {
			log.Printf("file: delete replaced object %s failed: %v", *file.StorageObjectName, err)
		}
	}

	file.StorageObjectName = &objectName
	file.Content = nil
	return nil
}
