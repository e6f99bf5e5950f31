package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported test users & profiles
var (
	TestAdminUser     m.User
	TestUserSeeker1   m.User
	TestUserSeeker2   m.User
	TestUserEmployer1 m.User
	TestUserEmployer2 m.User
	TestUserMulti     m.User
	TestSeeker1       m.JobseekerProfile
	TestSeeker2       m.JobseekerProfile
	TestEmployer1     m.EmployerProfile
	TestEmployer2     m.EmployerProfile

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded job posts
	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed sample jobseekers, employers and job posts
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, profiles and job posts if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got create during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	// Base data
	tels := []*string{ptr("0100000001"), ptr("0100000002"), ptr("0200000001"), ptr("0200000002"), ptr("0300000001"), ptr("0400000001")}
	emails := []*string{
		ptr("seeker1@example.com"), ptr("seeker2@example.com"),
		ptr("employer1@example.com"), ptr("employer2@example.com"),
		ptr("admin@example.com"), ptr("multi@example.com"),
	}
	userSpecs := []struct {
		username   string
		email      *string
		tel        *string
		role       string
		activeRole string
	}{
		{"jobseeker_1", emails[0], tels[0], m.RoleJobseeker, ""},
		{"jobseeker_2", emails[1], tels[1], m.RoleJobseeker, ""},
		{"employer_1", emails[2], tels[2], m.RoleEmployer, ""},
		{"employer_2", emails[3], tels[3], m.RoleEmployer, ""},
		{"admin_user", emails[4], tels[4], m.RoleAdmin, ""},
		{"multi_user", emails[5], tels[5], m.RoleMulti, m.RoleJobseeker},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:             uuid.New(),
			Username:       s.username,
			Email:          s.email,
			Tel:            s.tel,
			Role:           s.role,
			ActiveRole:     s.activeRole,
			Password:       hashedPwd,
			ProfilePicture: "",
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	// Map created users to exported variables
	for _, u := range users {
		switch u.Username {
		case "jobseeker_1":
			TestUserSeeker1 = u
		case "jobseeker_2":
			TestUserSeeker2 = u
		case "employer_1":
			TestUserEmployer1 = u
		case "employer_2":
			TestUserEmployer2 = u
		case "admin_user":
			TestAdminUser = u
		case "multi_user":
			TestUserMulti = u
		}
	}

	headline1, headline2 := "Backend developer", "Data analyst"

	seekerProfiles := []m.JobseekerProfile{
		{
			UserID: TestUserSeeker1.ID,
			EditableJobseekerInfo: m.EditableJobseekerInfo{
				FirstName: "Amina",
				LastName:  "Macarambon",
				Headline:  &headline1,
				Skills:    pq.StringArray{"Go", "SQL"},
			},
		},
		{
			UserID: TestUserSeeker2.ID,
			EditableJobseekerInfo: m.EditableJobseekerInfo{
				FirstName: "Omar",
				LastName:  "Dimaporo",
				Headline:  &headline2,
				Skills:    pq.StringArray{"Excel", "Python"},
			},
		},
		{
			// multi-role account also has a jobseeker profile
			UserID: TestUserMulti.ID,
			EditableJobseekerInfo: m.EditableJobseekerInfo{
				FirstName: "Farid",
				LastName:  "Alonto",
				Skills:    pq.StringArray{"Sales"},
			},
		},
	}
	if err := db.Create(&seekerProfiles).Error; err != nil {
		return err
	}

	sizeM, sizeL := "M", "L"

	employerProfiles := []m.EmployerProfile{
		{
			UserID:             TestUserEmployer1.ID,
			VerificationStatus: m.StatusApproved,
			EditableEmployerInfo: m.EditableEmployerInfo{
				CompanyName: "TechNova",
				Overview:    "Innovative platform solutions",
				Industry:    "Software",
				Size:        &sizeM,
			},
		},
		{
			UserID:             TestUserEmployer2.ID,
			VerificationStatus: m.StatusPending,
			EditableEmployerInfo: m.EditableEmployerInfo{
				CompanyName: "DataForge",
				Overview:    "Data analytics consulting",
				Industry:    "Consulting",
				Size:        &sizeL,
			},
		},
		{
			// multi-role account employer side, approved
			UserID:             TestUserMulti.ID,
			VerificationStatus: m.StatusApproved,
			EditableEmployerInfo: m.EditableEmployerInfo{
				CompanyName: "Alonto Trading",
				Overview:    "General merchandise",
				Industry:    "Retail",
			},
		},
	}
	if err := db.Create(&employerProfiles).Error; err != nil {
		return err
	}

	// Assign exported profile structs
	TestSeeker1 = seekerProfiles[0]
	TestSeeker2 = seekerProfiles[1]
	TestEmployer1 = employerProfiles[0]
	TestEmployer2 = employerProfiles[1]

	// Seed job posts (only if none exist yet)
	var jobCount int64
	if err := db.Model(&m.Job{}).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount == 0 {
		exp1 := time.Now().AddDate(0, 1, 0)
		exp2 := time.Now().AddDate(0, 2, 0)
		exp3 := time.Now().AddDate(0, 3, 0)

		jobs := []m.Job{
			{
				EmployerID: TestEmployer1.UserID,
				EditableJobInfo: m.EditableJobInfo{
					Title:    "Backend Engineer",
					Desc:     "Work on Go services and database layers.",
					Req:      "Go basics; SQL familiarity",
					ExpLvl:   "Junior",
					Location: "Marawi (Hybrid)",
					Type:     "Full-time",
					Salary:   "25000 PHP",
					Tags:     []string{"go", "backend", "api"},
					Expiring: &exp1,
				},
			},
			{
				EmployerID: TestEmployer1.UserID,
				EditableJobInfo: m.EditableJobInfo{
					Title:    "Frontend Developer",
					Desc:     "Build component library in React.",
					Req:      "JS/TS fundamentals",
					ExpLvl:   "Junior",
					Location: "Remote",
					Type:     "Contract",
					Salary:   "20000 PHP",
					Tags:     []string{"react", "typescript", "ui"},
					Expiring: &exp2,
				},
			},
			{
				EmployerID: TestEmployer2.UserID,
				EditableJobInfo: m.EditableJobInfo{
					Title:    "Data Analyst",
					Desc:     "Support data cleansing and dashboards.",
					Req:      "SQL; basic statistics",
					ExpLvl:   "Entry",
					Location: "Iligan (On-site)",
					Type:     "Full-time",
					Salary:   "22000 PHP",
					Tags:     []string{"data", "sql", "analytics"},
					Expiring: &exp3,
				},
			},
		}

		if err := db.Create(&jobs).Error; err != nil {
			return err
		}
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"jobseeker_1", "jobseeker_2", "employer_1", "employer_2", "admin_user", "multi_user",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "jobseeker_1":
			TestUserSeeker1 = u
		case "jobseeker_2":
			TestUserSeeker2 = u
		case "employer_1":
			TestUserEmployer1 = u
		case "employer_2":
			TestUserEmployer2 = u
		case "admin_user":
			TestAdminUser = u
		case "multi_user":
			TestUserMulti = u
		}
	}

	// Load jobseeker profiles
	_ = db.First(&TestSeeker1, "user_id = ?", TestUserSeeker1.ID).Error
	_ = db.First(&TestSeeker2, "user_id = ?", TestUserSeeker2.ID).Error

	// Load employer profiles
	_ = db.First(&TestEmployer1, "user_id = ?", TestUserEmployer1.ID).Error
	_ = db.First(&TestEmployer2, "user_id = ?", TestUserEmployer2.ID).Error

	// Load first three job posts deterministically
	var posts []m.Job
	if err := db.Order("id ASC").Limit(3).Find(&posts).Error; err == nil {
		if len(posts) > 0 {
			TestJob1 = posts[0]
		}
		if len(posts) > 1 {
			TestJob2 = posts[1]
		}
		if len(posts) > 2 {
			TestJob3 = posts[2]
		}
	}

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
