package routes

import (
	"courseplatform/backend/config"
	"courseplatform/backend/controllers"
	"courseplatform/backend/middleware"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, storage *utils.Storage) {
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware()

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	auth := app.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/register_account", authMiddleware, adminMiddleware, authController.RegisterAccount)
	auth.Post("/logout", authController.Logout)

	api := app.Group("/api", authMiddleware)

	// Courses
	coursesController := controllers.NewCoursesController(db, cfg, storage)
	api.Get("/courses", coursesController.GetCourses)
	api.Post("/course", adminMiddleware, coursesController.CreateCourse)
	api.Get("/course/:id", coursesController.GetCourseDetail)
	api.Put("/course/:id", adminMiddleware, coursesController.UpdateCourse)
	api.Put("/course/:id/edit", adminMiddleware, coursesController.UpdateCourse) // legacy path

	api.Delete("/course/:id", adminMiddleware, coursesController.DeleteCourse)
	api.Post("/course/grant-access", adminMiddleware, coursesController.GrantAccess)
	api.Post("/course/revoke-access", adminMiddleware, coursesController.RevokeAccess)

	// Videos (ordered per course)
	videosController := controllers.NewVideosController(db, cfg, storage)
	api.Get("/course/:id/videos", videosController.GetCourseVideos)
	api.Post("/course/:id/video", adminMiddleware, videosController.AddVideo)
	api.Get("/course/:id/video/:videoId", videosController.GetVideoDetail)
	api.Delete("/course/:id/video/:videoId", adminMiddleware, videosController.DeleteVideo)

	// Comments on videos
	commentsController := controllers.NewCommentsController(db, cfg)
	api.Get("/course/:id/video/:videoId/comment", commentsController.GetComments)
	api.Post("/course/:id/video/:videoId/comment", commentsController.AddComment)

	// PDFs (ordered per course, independent of video order)
	pdfsController := controllers.NewPdfsController(db, cfg, storage)
	api.Get("/course/:id/pdfs", pdfsController.GetCoursePdfs)
	api.Post("/course/:id/pdf", adminMiddleware, pdfsController.AddPdf)
	api.Get("/course/:id/pdf/:pdfId", pdfsController.GetPdf)
	api.Put("/course/:id/pdf/:pdfId", adminMiddleware, pdfsController.UpdatePdf)
	api.Delete("/course/:id/pdf/:pdfId", adminMiddleware, pdfsController.DeletePdf)

	// User administration
	usersController := controllers.NewUsersController(db, cfg)
	api.Get("/users", adminMiddleware, usersController.GetUsers)
	api.Get("/users/:id", adminMiddleware, usersController.GetUser)
	api.Delete("/users/:id", adminMiddleware, usersController.DeleteUser)

	// Stored files
	filesController := controllers.NewFilesController(cfg, storage)
	api.Get("/uploads/*", filesController.ServeUpload)
}
