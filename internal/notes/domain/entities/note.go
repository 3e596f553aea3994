// Package entities defines the domain entities for the notes service.
package entities

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Category категория заметки.
type Category string

// Допустимые категории заметок.
const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryProject  Category = "project"
	CategoryOther    Category = "other"
)

// Priority приоритет заметки.
type Priority string

// Допустимые приоритеты заметок.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Permission уровень доступа соавтора к заметке.
type Permission string

// Уровни доступа соавторов.
const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// Ограничения на поля заметки. Длины считаются в символах,
// а не в байтах, чтобы не ущемлять нелатинские алфавиты.
const (
	MaxTitleLength   = 200
	MaxContentLength = 100000
	MaxTagLength     = 50
)

// Version неизменяемый снимок содержимого заметки.
// Создается один раз и никогда не редактируется и не удаляется.
type Version struct {
	VersionNumber int       `json:"versionNumber"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// Attachment метаданные прикрепленного файла.
type Attachment struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Mimetype     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	StoragePath  string    `json:"storagePath"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Reminder напоминание, привязанное к заметке.
type Reminder struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	ReminderDate     time.Time `json:"reminderDate"`
	IsCompleted      bool      `json:"isCompleted"`
	NotificationSent bool      `json:"notificationSent"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ShareRecord активная ссылка доступа к заметке.
// У заметки может быть не более одной активной записи; замена
// немедленно аннулирует предыдущий токен.
type ShareRecord struct {
	ShareToken   string     `json:"shareToken"`
	IsPublic     bool       `json:"isPublic"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	AllowedUsers []string   `json:"allowedUsers,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// IsExpired сообщает, истекла ли ссылка на момент now.
// Нулевое время истечения означает бессрочную ссылку.
func (s *ShareRecord) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Note агрегат заметки: владеет версиями, вложениями, напоминаниями
// и записью о совместном доступе. Все мутации проходят через операции
// агрегата, прямое изменение вложенных коллекций не допускается.
type Note struct {
	ID             string                `json:"id"`
	OwnerID        string                `json:"owner"`
	Title          string                `json:"title"`
	Content        string                `json:"content"`
	Tags           []string              `json:"tags"`
	Category       Category              `json:"category"`
	Priority       Priority              `json:"priority"`
	Collaborators  map[string]Permission `json:"collaborators,omitempty"`
	Attachments    []Attachment          `json:"attachments,omitempty"`
	Versions       []Version             `json:"versions"`
	CurrentVersion int                   `json:"currentVersion"`
	Sharing        *ShareRecord          `json:"sharing,omitempty"`
	Reminders      []Reminder            `json:"reminders,omitempty"`
	IsFavorite     bool                  `json:"isFavorite"`
	CreatedAt      time.Time             `json:"createdAt"`
	LastModified   time.Time             `json:"lastModified"`

	// Revision - счетчик оптимистичной блокировки на уровне хранилища.
	// Увеличивается при каждом сохранении агрегата.
	Revision int64 `json:"-"`
}

// NewNote создает новую заметку с первой версией содержимого.
func NewNote(ownerID, title, content string, tags []string, category Category, priority Priority, now time.Time) (*Note, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	normalized, err := normalizeTags(tags)
	if err != nil {
		return nil, err
	}

	if category == "" {
		category = CategoryOther
	}
	if !category.Valid() {
		return nil, &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, &ValidationError{Field: "priority", Reason: "unknown priority"}
	}

	note := &Note{
		ID:       uuid.New().String(),
		OwnerID:  ownerID,
		Title:    title,
		Content:  content,
		Tags:     normalized,
		Category: category,
		Priority: priority,
		Versions: []Version{{
			VersionNumber: 1,
			Title:         title,
			Content:       content,
			Tags:          copyTags(normalized),
			CreatedAt:     now,
			CreatedBy:     ownerID,
		}},
		CurrentVersion: 1,
		CreatedAt:      now,
		LastModified:   now,
	}

	return note, nil
}

// Valid проверяет, что категория входит в допустимый набор.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryStudy, CategoryProject, CategoryOther:
		return true
	}
	return false
}

// Valid проверяет, что приоритет входит в допустимый набор.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Valid проверяет, что уровень доступа входит в допустимый набор.
func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionWrite:
		return true
	}
	return false
}

// VersionByNumber возвращает версию с указанным номером.
func (n *Note) VersionByNumber(versionNumber int) (*Version, error) {
	for i := range n.Versions {
		if n.Versions[i].VersionNumber == versionNumber {
			return &n.Versions[i], nil
		}
	}
	return nil, ErrVersionNotFound
}

// ReminderByID возвращает напоминание с указанным идентификатором.
func (n *Note) ReminderByID(reminderID string) (*Reminder, error) {
	for i := range n.Reminders {
		if n.Reminders[i].ID == reminderID {
			return &n.Reminders[i], nil
		}
	}
	return nil, ErrReminderNotFound
}

// AttachmentByID возвращает вложение с указанным идентификатором.
func (n *Note) AttachmentByID(attachmentID string) (*Attachment, error) {
	for i := range n.Attachments {
		if n.Attachments[i].ID == attachmentID {
			return &n.Attachments[i], nil
		}
	}
	return nil, ErrAttachmentNotFound
}

// RemoveAttachment удаляет метаданные вложения из агрегата.
func (n *Note) RemoveAttachment(attachmentID string) (*Attachment, error) {
	for i := range n.Attachments {
		if n.Attachments[i].ID == attachmentID {
			removed := n.Attachments[i]
			n.Attachments = append(n.Attachments[:i], n.Attachments[i+1:]...)
			return &removed, nil
		}
	}
	return nil, ErrAttachmentNotFound
}

// ValidateTitle проверяет заголовок заметки или напоминания.
func ValidateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: "exceeds maximum length"}
	}
	return nil
}

// ValidateContent проверяет содержимое заметки.
func ValidateContent(content string) error {
	if content == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return &ValidationError{Field: "content", Reason: "exceeds maximum length"}
	}
	return nil
}

func normalizeTags(tags []string) ([]string, error) {
	normalized := NormalizeTags(tags)
	for _, tag := range normalized {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, &ValidationError{Field: "tags", Reason: "tag exceeds maximum length"}
		}
	}
	return normalized, nil
}

func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	copied := make([]string, len(tags))
	copy(copied, tags)
	return copied
}
