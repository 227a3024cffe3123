package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dersly/dersly-api/api/swagger"
	"github.com/dersly/dersly-api/internal/handler"
	"github.com/dersly/dersly-api/internal/middleware"
	"github.com/dersly/dersly-api/internal/service"
	"github.com/dersly/dersly-api/internal/store"
	"github.com/dersly/dersly-api/pkg/config"
	"github.com/dersly/dersly-api/pkg/logger"
	corsmiddleware "github.com/dersly/dersly-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dersly/dersly-api/pkg/middleware/requestid"
)

// @title Dersly API
// @version 1.0.0
// @description Personal student planner: course schedule, deadlines, GPA tracking and calendar export
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	sessions := store.New(cfg.Sessions.TTL, logr)

	courseSvc := service.NewCourseService(sessions, validate, logr)
	taskSvc := service.NewTaskService(sessions, validate, logr)
	reminderSvc := service.NewReminderService(sessions, validate, logr)
	gradeSvc := service.NewGradeService(sessions, validate, logr)
	calendarSvc := service.NewCalendarService(sessions, cfg.Calendar, logr)
	backupSvc := service.NewBackupService(sessions, cfg.Sessions.CapacityWarnItems, logr)
	profileSvc := service.NewProfileService(sessions, cfg.Grading.DefaultScale, validate, logr)

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService(sessions)
	}

	courseHandler := handler.NewCourseHandler(courseSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	reminderHandler := handler.NewReminderHandler(reminderSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	backupHandler := handler.NewBackupHandler(backupSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Session())
	{
		courses := api.Group("/courses")
		courses.GET("", courseHandler.List)
		courses.POST("", courseHandler.Create)
		courses.GET("/conflict", courseHandler.CheckConflict)
		courses.GET("/:id", courseHandler.Get)
		courses.PUT("/:id", courseHandler.Update)
		courses.DELETE("/:id", courseHandler.Delete)

		tasks := api.Group("/tasks")
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/upcoming", taskHandler.Upcoming)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.POST("/:id/toggle", taskHandler.Toggle)
		tasks.DELETE("/:id", taskHandler.Delete)

		reminders := api.Group("/reminders")
		reminders.GET("", reminderHandler.List)
		reminders.POST("", reminderHandler.Create)
		reminders.GET("/urgent", reminderHandler.Urgent)
		reminders.GET("/counts", reminderHandler.Counts)
		reminders.GET("/stored", reminderHandler.Stored)
		reminders.GET("/period/:period", reminderHandler.ByPeriod)
		reminders.GET("/task/:id", reminderHandler.ForTask)
		reminders.DELETE("/:id", reminderHandler.Delete)

		grades := api.Group("/grades")
		grades.GET("", gradeHandler.List)
		grades.POST("", gradeHandler.Create)
		grades.GET("/statistics", gradeHandler.Statistics)
		grades.GET("/scales", gradeHandler.Scales)
		grades.GET("/convert", gradeHandler.Convert)
		grades.GET("/required", gradeHandler.Required)
		grades.GET("/report", gradeHandler.Report)
		grades.PUT("/:id", gradeHandler.Update)
		grades.DELETE("/:id", gradeHandler.Delete)

		calendar := api.Group("/calendar")
		calendar.GET("/tasks", calendarHandler.Tasks)
		calendar.GET("/tasks/:id", calendarHandler.Task)
		calendar.GET("/courses/:id", calendarHandler.Course)
		calendar.GET("/schedule", calendarHandler.Schedule)

		backup := api.Group("/backup")
		backup.GET("/export", backupHandler.Export)
		backup.POST("/import", backupHandler.Import)
		backup.GET("/info", backupHandler.Info)
		backup.POST("/clear", backupHandler.Clear)

		profile := api.Group("/profile")
		profile.GET("", profileHandler.Get)
		profile.PUT("", profileHandler.Save)
		profile.DELETE("", profileHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
