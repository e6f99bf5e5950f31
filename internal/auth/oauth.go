package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	// Auto load .env file
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// GoogleUserInfo is the subset of the Google userinfo payload this backend uses
type GoogleUserInfo struct {
	GID       string `json:"sub"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
}

// OauthLoginHandler struct holds the database connection and OAuth2 configuration for handling OAuth login.
type OauthLoginHandler struct {
	DB               *database.DBinstanceStruct
	Recorder         *activity.Recorder
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

type code struct {
	Code string `json:"code" binding:"required"`
}

// NewOauthLoginHandler creates a new instance of OauthLoginHandler with the provided database connection and OAuth2 configuration.
func NewOauthLoginHandler(db *database.DBinstanceStruct, recorder *activity.Recorder, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		DB:               db,
		Recorder:         recorder,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

func (h *OauthLoginHandler) getUserInfo(c *gin.Context) (GoogleUserInfo, error) {

	var code code
	var uInfo GoogleUserInfo

	// check does body has code
	if err := c.ShouldBindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("No authorization code provided: %v", err.Error()),
		})
		return uInfo, err
	}

	// Exchange code with google and get userinfo
	token, err := h.OauthConfig.Exchange(
		context.Background(),
		code.Code,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to receive token: %v", err.Error()),
		})
		return uInfo, err
	}

	client := h.OauthConfig.Client(context.Background(), token)
	resp, err := client.Get(h.UserInfoEndpoint)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: %v", err.Error()),
		})
		return uInfo, err
	}
	if resp.StatusCode != http.StatusOK {
		var bodyBytes []byte
		if resp.Body != nil {
			bodyBytes, _ = io.ReadAll(resp.Body)
		}
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: status=%d body=%s", resp.StatusCode, string(bodyBytes)),
		})
		return uInfo, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if err := json.NewDecoder(resp.Body).Decode(&uInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to decode user info: %v", err.Error()),
		})
		return uInfo, err
	}
	if uInfo.GID == "" {
		log.Printf("warning: decoded Google user info has empty GID: %+v", uInfo)
	}
	return uInfo, nil
}

// JobseekerGoogleLoginHandler handles Google login for the jobseeker role,
// exchanges the code for user info, creates the account on first login,
// opens a session and returns an access token.
// @Summary Handles Google login authentication for jobseeker role
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.JobseekerResponse "Login success"
// @Success 201 {object} model.JobseekerResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/jobseeker [post]
func (h *OauthLoginHandler) JobseekerGoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	user, respStatus, ok := h.loginOrRegister(uInfo, model.RoleJobseeker, c)
	if !ok {
		return
	}

	var profile model.JobseekerProfile
	err = h.DB.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = model.JobseekerProfile{
			UserID: user.ID,
			EditableJobseekerInfo: model.EditableJobseekerInfo{
				FirstName: uInfo.FirstName,
				LastName:  uInfo.LastName,
			},
		}
		if err := h.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create profile: %v", err.Error()),
			})
			return
		}
		profile.User = user
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user data: %v", err.Error()),
		})
		return
	}

	accessToken, err := h.openSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	h.Recorder.Record(user.ID, "user_login", "Logged in with Google", nil)

	c.JSON(respStatus, model.JobseekerResponse{User: profile, AccessToken: accessToken})
}

// EmployerGoogleLoginHandler handles Google login for the employer role.
// @Summary Handles Google login authentication for employer role
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.EmployerResponse "Login success"
// @Success 201 {object} model.EmployerResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/employer [post]
func (h *OauthLoginHandler) EmployerGoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	user, respStatus, ok := h.loginOrRegister(uInfo, model.RoleEmployer, c)
	if !ok {
		return
	}

	var profile model.EmployerProfile
	err = h.DB.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = model.EmployerProfile{
			UserID:             user.ID,
			VerificationStatus: model.StatusPending,
		}
		if err := h.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create profile: %v", err.Error()),
			})
			return
		}
		profile.User = user
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user data: %v", err.Error()),
		})
		return
	}

	accessToken, err := h.openSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	h.Recorder.Record(user.ID, "user_login", "Logged in with Google", nil)

	c.JSON(respStatus, model.EmployerResponse{User: profile, AccessToken: accessToken})
}

// loginOrRegister finds the base user by Google id or creates it with the
// requested role. Returns false when a response has already been written.
func (h *OauthLoginHandler) loginOrRegister(uInfo GoogleUserInfo, role string, c *gin.Context) (model.User, int, bool) {
	var user model.User
	respStatus := http.StatusOK

	err := h.DB.Where("google_id = ?", uInfo.GID).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			Username:       uInfo.Email,
			GoogleID:       uInfo.GID,
			Email:          &uInfo.Email,
			Role:           role,
			ProfilePicture: uInfo.Picture,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %v", err.Error()),
			})
			return user, 0, false
		}
		respStatus = http.StatusCreated

	case err == nil:
		// existing account keeps its role, even when logging in through the
		// other role's button

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %v", err.Error()),
		})
		return user, 0, false
	}

	return user, respStatus, true
}

func (h *OauthLoginHandler) openSession(user model.User) (string, error) {
	session, err := CreateSession(h.DB.DB, user)
	if err != nil {
		return "", err
	}
	accessToken, _, err := GenerateStandardToken(session.ID)
	return accessToken, err
}

// Callback retrieves the "code" query parameter and returns it as JSON.
// @Summary Retrieves a query parameter named "code" from the request and returns it in a JSON response
// @Tags Auth
// @Produce json
// @Param Code query string false "Authentication code from google"
// @Success 200 {object} code
// @Router /auth/google/callback [get]
func (h *OauthLoginHandler) Callback(c *gin.Context) {
	aCode := c.Query("code")
	c.JSON(http.StatusOK, code{
		Code: aCode,
	})
}
