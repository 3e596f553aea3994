// Package http содержит компоненты для HTTP сервера заметок.
package http

import (
	"github.com/gofiber/fiber/v3"

	"thinkboard/internal/notes/adapters/http/handlers"
	"thinkboard/internal/notes/adapters/http/middleware"
	"thinkboard/internal/notes/app"
	"thinkboard/internal/notes/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(router *fiber.App, tokens services.TokenService, notes *app.NoteUseCase, shares *app.ShareUseCase, reminders *app.ReminderUseCase) {
	handler := handlers.NewHandler(notes, shares, reminders)

	// Middleware для всех запросов.
	router.Use(middleware.NewLoggerMiddleware())
	router.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := router.Group("/api/v1")

	// Чтение по токену доступа: токен сам дает право, авторизация
	// не обязательна, но учитывается для приватных ссылок.
	sharedRoutes := apiV1.Group("/shared")
	sharedRoutes.Use(middleware.NewOptionalAuthMiddleware(tokens))
	sharedRoutes.Get("/:token", handler.GetSharedNote)

	// Маршруты заметок (требуют авторизации).
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Use(middleware.NewAuthMiddleware(tokens))
	notesRoutes.Post("/", handler.CreateNote)
	notesRoutes.Get("/", handler.SearchNotes)
	notesRoutes.Get("/tags", handler.ListTags)
	notesRoutes.Get("/shared-with-me", handler.ListSharedWithMe)
	notesRoutes.Get("/:note_id", handler.GetNote)
	notesRoutes.Patch("/:note_id", handler.UpdateNote)
	notesRoutes.Put("/:note_id", handler.UpdateNote)
	notesRoutes.Delete("/:note_id", handler.DeleteNote)

	// История версий.
	notesRoutes.Get("/:note_id/versions", handler.ListVersions)
	notesRoutes.Get("/:note_id/versions/:version", handler.GetVersion)
	notesRoutes.Post("/:note_id/versions/:version/restore", handler.RestoreVersion)

	// Вложения.
	notesRoutes.Post("/:note_id/attachments", handler.UploadAttachments)
	notesRoutes.Get("/:note_id/attachments/:attachment_id", handler.GetAttachment)
	notesRoutes.Delete("/:note_id/attachments/:attachment_id", handler.DeleteAttachment)

	// Ссылки доступа.
	notesRoutes.Post("/:note_id/share", handler.ShareNote)
	notesRoutes.Delete("/:note_id/share", handler.RevokeShare)

	// Соавторы.
	notesRoutes.Post("/:note_id/collaborators", handler.AddCollaborator)
	notesRoutes.Delete("/:note_id/collaborators/:user_id", handler.RemoveCollaborator)

	// Напоминания.
	notesRoutes.Post("/:note_id/reminders", handler.AddReminder)
	notesRoutes.Patch("/:note_id/reminders/:reminder_id", handler.UpdateReminder)

	reminderRoutes := apiV1.Group("/reminders")
	reminderRoutes.Use(middleware.NewAuthMiddleware(tokens))
	reminderRoutes.Get("/upcoming", handler.UpcomingReminders)
	reminderRoutes.Get("/today", handler.TodayReminders)

	// Обработчик для несуществующих маршрутов.
	router.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
