package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhive/internal/config"
	"taskhive/internal/handler"
	"taskhive/internal/mail"
	"taskhive/internal/middleware"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logrus.Info("connected to database")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Organization{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Task{},
		&model.Attachment{},
		&model.SubTask{},
		&model.ProjectNote{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	uploader, err := storage.NewDiskUploader(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	cascadeRepo := repository.NewCascadeRepository(db)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, mailer, uploader, cfg)
	orgHandler := handler.NewOrganizationHandler(orgRepo, projectRepo, cascadeRepo)
	projectHandler := handler.NewProjectHandler(projectRepo, orgRepo, memberRepo, userRepo, cascadeRepo)
	memberHandler := handler.NewMemberHandler(projectRepo, memberRepo, userRepo, mailer, cfg)
	taskHandler := handler.NewTaskHandler(taskRepo, subtaskRepo, projectRepo, memberRepo, uploader, cascadeRepo)
	noteHandler := handler.NewNoteHandler(noteRepo, projectRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.Static("/uploads", cfg.UploadDir)

	authRequired := middleware.JWTAuthMiddleware(cfg.AccessTokenSecret, userRepo)
	anyRole := middleware.ProjectPermission(memberRepo, model.RoleAdmin, model.RoleProjectAdmin, model.RoleMember)
	adminRoles := middleware.ProjectPermission(memberRepo, model.RoleAdmin, model.RoleProjectAdmin)
	adminOnly := middleware.ProjectPermission(memberRepo, model.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.GET("/healthcheck", handler.HealthCheck)

		user := api.Group("/user")
		{
			user.POST("/register", authHandler.Register)
			user.POST("/login", authHandler.Login)
			user.GET("/verify-email", authHandler.VerifyEmail)
			user.POST("/resend-verification-email", authHandler.ResendVerificationEmail)
			user.POST("/refresh-token", authHandler.RefreshAccessToken)
			user.POST("/forgot-password-request", authHandler.ForgotPasswordRequest)
			user.POST("/reset-password", authHandler.ResetPassword)

			user.POST("/logout", authRequired, authHandler.Logout)
			user.GET("/current-user", authRequired, authHandler.CurrentUser)
			user.POST("/change-password", authRequired, authHandler.ChangePassword)
		}

		org := api.Group("/organization", authRequired)
		{
			org.POST("/create", orgHandler.Create)
			org.GET("/getAllOrganizations", orgHandler.GetAll)
			org.GET("/:organizationId", orgHandler.GetByID)
			org.PUT("/update", orgHandler.Update)
			org.DELETE("/:organizationId", orgHandler.Delete)
		}

		project := api.Group("/project")
		{
			// Invite redemption authenticates through the signed token
			// inside the link, not a session.
			project.GET("/addMember", memberHandler.AddMember)

			project.POST("/createProject", authRequired, projectHandler.Create)
			project.GET("/getAllProjects", authRequired, projectHandler.GetAll)
			project.GET("/getProjectById/:projectId", authRequired, anyRole, projectHandler.GetByID)
			project.PUT("/updateProject/:projectId", authRequired, adminRoles, projectHandler.Update)
			project.DELETE("/deleteProject/:projectId", authRequired, adminOnly, projectHandler.Delete)

			project.GET("/getAllProjectMembers/:projectId", authRequired, anyRole, memberHandler.GetAllProjectMembers)
			project.POST("/addMemberRequest/:projectId", authRequired, adminRoles, memberHandler.AddMemberRequest)
			project.DELETE("/deleteMember/:projectId/:memberId", authRequired, adminRoles, memberHandler.DeleteMember)
			project.PUT("/updateMemberRole/:projectId", authRequired, adminRoles, memberHandler.UpdateMemberRole)
		}

		task := api.Group("/task", authRequired)
		{
			task.GET("/getMyTasks", taskHandler.GetMyTasks)

			task.POST("/createTask/:projectId", adminRoles, taskHandler.Create)
			task.GET("/getAllProjectTasks/:projectId", anyRole, taskHandler.GetAllProjectTasks)
			task.GET("/getTaskById/:projectId/:taskId", anyRole, taskHandler.GetByID)
			task.PUT("/updateTask/:projectId/:taskId", adminRoles, taskHandler.Update)
			task.DELETE("/deleteTask/:projectId/:taskId", adminRoles, taskHandler.Delete)

			task.POST("/createSubTask/:projectId/:taskId", adminRoles, taskHandler.CreateSubTask)
			task.PUT("/updateSubTask/:projectId/:subtaskId", anyRole, taskHandler.UpdateSubTask)
			task.DELETE("/deleteSubTask/:projectId/:subtaskId", anyRole, taskHandler.DeleteSubTask)
		}

		note := api.Group("/note", authRequired)
		{
			note.GET("/getNotes/:projectId", anyRole, noteHandler.GetNotes)
			note.GET("/getNoteById/:projectId/:noteId", anyRole, noteHandler.GetNoteByID)
			note.POST("/createNote/:projectId", adminRoles, noteHandler.Create)
			note.PUT("/updateNote/:projectId/:noteId", adminRoles, noteHandler.Update)
			note.DELETE("/deleteNote/:projectId/:noteId", adminRoles, noteHandler.Delete)
		}
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logrus.Infof("server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %s", err)
	}

	logrus.Info("server exited properly")
}
