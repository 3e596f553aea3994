package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/adapters/http/dto"
	"thinkboard/internal/notes/app"
	"thinkboard/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerAddReminder       = "handling add reminder request"
	LogHandlerUpdateReminder    = "handling update reminder request"
	LogHandlerUpcomingReminders = "handling upcoming reminders request"
	LogHandlerTodayReminders    = "handling today reminders request"

	ErrMsgInvalidReminderID = "invalid reminder id"
	ErrMsgMissingCompleted  = "isCompleted is required"
)

// AddReminder обрабатывает добавление напоминания к заметке.
func (h *Handler) AddReminder(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.AddReminder"))
	log.Debug(userCtx, LogHandlerAddReminder)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.ReminderRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	reminder, err := h.reminders.Add(userCtx, userID, noteID, app.ReminderParams{
		Title:        req.Title,
		Description:  req.Description,
		ReminderDate: req.ReminderDate,
	})
	if err != nil {
		log.Error(userCtx, "failed to add reminder", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(reminder); err != nil {
		return sendError(err)
	}
	return nil
}

// UpdateReminder обрабатывает отметку напоминания выполненным.
func (h *Handler) UpdateReminder(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UpdateReminder"))
	log.Debug(userCtx, LogHandlerUpdateReminder)

	noteID := ctx.Params("note_id")
	reminderID := ctx.Params("reminder_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}
	if reminderID == "" {
		return badRequest(ctx, ErrMsgInvalidReminderID)
	}

	var req dto.UpdateReminderRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if req.IsCompleted == nil {
		return badRequest(ctx, ErrMsgMissingCompleted)
	}

	reminder, err := h.reminders.SetCompleted(userCtx, userID, noteID, reminderID, *req.IsCompleted)
	if err != nil {
		log.Error(userCtx, "failed to update reminder", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(reminder); err != nil {
		return sendError(err)
	}
	return nil
}

// UpcomingReminders обрабатывает запрос на предстоящие напоминания.
func (h *Handler) UpcomingReminders(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UpcomingReminders"))
	log.Debug(userCtx, LogHandlerUpcomingReminders)

	limit, err := strconv.Atoi(ctx.Query("limit", "10"))
	if err != nil {
		return badRequest(ctx, ErrMsgInvalidPagination)
	}

	reminders, err := h.reminders.Upcoming(userCtx, userID, limit)
	if err != nil {
		log.Error(userCtx, "failed to list upcoming reminders", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(fiber.Map{"reminders": reminders}); err != nil {
		return sendError(err)
	}
	return nil
}

// TodayReminders обрабатывает запрос на напоминания текущего дня.
func (h *Handler) TodayReminders(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.TodayReminders"))
	log.Debug(userCtx, LogHandlerTodayReminders)

	reminders, err := h.reminders.Today(userCtx, userID)
	if err != nil {
		log.Error(userCtx, "failed to list today reminders", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(fiber.Map{"reminders": reminders}); err != nil {
		return sendError(err)
	}
	return nil
}
