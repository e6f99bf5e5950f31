// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/MACKY1516/ranao-jobs-platform-sub002/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	appsvc "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/application"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/auth"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/admin"
	applicationctl "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/application"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/file"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/jobpost"
	notificationctl "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/notification"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/profile"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/middleware"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/notification"
)

// RegisterRoutes will register each http endpoint route to the bound server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.openid",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	recorder := activity.NewRecorder(s.DB.DB)
	dispatcher := notification.NewDispatcher(s.DB.DB)
	updater := appsvc.NewUpdater(s.DB.DB)
	blacklist := auth.NewInMemoryBlacklistStore()

	gAuth := auth.NewOauthLoginHandler(s.DB, recorder, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB, recorder)
	logout := auth.NewLogoutController(s.DB, blacklist)

	jobPostCtl := jobpost.NewJobPostController(s.DB, recorder)
	applicationCtl := applicationctl.NewApplicationController(s.DB, updater, dispatcher, recorder)
	adminCtl := admin.NewAdminController(s.DB, dispatcher, recorder)
	notificationCtl := notificationctl.NewNotificationController(s.DB)
	profileCtl := profile.NewProfileController(s.DB, recorder)

	var storageClient file.StorageClient
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		cs, err := file.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Failed to create cloud storage client: %s", err)
		}
		storageClient = cs
	}
	fileCtl := file.NewFileController(s.DB, storageClient)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeaders())
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("google/jobseeker", gAuth.JobseekerGoogleLoginHandler)
			authRoute.POST("google/employer", gAuth.EmployerGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(blacklist))

			needAuth.POST("auth/logout", logout.LogoutHandler)

			fileRoute := needAuth.Group("/file")
			{
				fileRoute.GET(":id", fileCtl.GetFile)
			}

			notificationRoute := needAuth.Group("/notification")
			{
				notificationRoute.GET("", notificationCtl.MyNotifications)
				notificationRoute.PATCH(":id/read", notificationCtl.MarkRead)
			}

			needAuth.POST("profile/role-request", profileCtl.RequestMultiRole)

			jobPostRoute := needAuth.Group("/jobpost")
			{
				jobPostRoute.GET("/:id", jobPostCtl.GetPostByID)
				jobPostRoute.GET("", jobPostCtl.GetPosts)
				jobPostRoute.Use(
					middleware.CheckRole(s.DB, model.RoleEmployer),
					middleware.CheckVerifiedEmployer(s.DB),
				)
				jobPostRoute.POST("", jobPostCtl.CreateJobPostHandler)
			}

			needEmployerAdmin := needAuth.Group("")
			{
				needEmployerAdmin.Use(middleware.CheckRole(s.DB, model.RoleAdmin, model.RoleEmployer))
				needEmployerAdmin.PATCH("jobpost/:id", jobPostCtl.EditJobPost)
				needEmployerAdmin.DELETE("jobpost/:id", jobPostCtl.DeleteJobPost)
				needEmployerAdmin.GET("application/job/:id", applicationCtl.JobApplications)
				needEmployerAdmin.PATCH("application/:id/status", applicationCtl.UpdateStatus)
			}

			needAdmin := needAuth.Group("/admin")
			{
				needAdmin.Use(middleware.CheckRole(s.DB, model.RoleAdmin))
				needAdmin.GET("employers", adminCtl.GetEmployers)
				needAdmin.PATCH("verify-employer/:id", adminCtl.VerifyEmployer)
				needAdmin.PATCH("role-request/:id", adminCtl.ApproveRoleRequest)
			}

			needEmployer := needAuth.Group("/employer")
			{
				needEmployer.Use(middleware.CheckRole(s.DB, model.RoleEmployer))
				needEmployer.GET("profile", profileCtl.GetMyEmployerProfile)
				needEmployer.PATCH("profile", profileCtl.EditMyEmployerProfile)
				needEmployer.POST("profile/logo", middleware.LimitBodySize(10<<20), fileCtl.UploadLogo)
			}

			needJobseeker := needAuth.Group("")
			{
				needJobseeker.Use(middleware.CheckRole(s.DB, model.RoleJobseeker))
				jobseekerRoute := needJobseeker.Group("/jobseeker")
				{
					jobseekerRoute.GET("profile", profileCtl.GetMyJobseekerProfile)
					jobseekerRoute.PATCH("profile", profileCtl.EditMyJobseekerProfile)
					jobseekerRoute.POST("profile/resume", middleware.LimitBodySize(10<<20), fileCtl.UploadResume)
				}

				needJobseeker.POST("application", applicationCtl.ApplicationHandler)
				needJobseeker.GET("application/my", applicationCtl.MyApplications)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
