package sqlite

import (
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

type userModel struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

type taskModel struct {
	ID             int64  `gorm:"primaryKey"`
	UserID         int64  `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    *string
	StartDate      *string
	DueDate        *string `gorm:"index"`
	CompletionDate *string
	Status         string     `gorm:"not null;default:pending"`
	User           *userModel `gorm:"constraint:OnDelete:CASCADE"`
}

func (taskModel) TableName() string { return "tasks" }

type deletedTaskModel struct {
	ID             int64  `gorm:"primaryKey"`
	UserID         int64  `gorm:"not null;index:idx_deleted_tasks_user_latest,priority:1"`
	Title          string `gorm:"not null"`
	Description    *string
	StartDate      *string
	DueDate        *string
	CompletionDate *string
	Status         string     `gorm:"not null"`
	DeletionTime   time.Time  `gorm:"not null;index:idx_deleted_tasks_user_latest,priority:2"`
	User           *userModel `gorm:"constraint:OnDelete:CASCADE"`
}

func (deletedTaskModel) TableName() string { return "deleted_tasks" }

type subscriptionModel struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"not null;index"`
	Frequency string     `gorm:"not null;index"`
	User      *userModel `gorm:"constraint:OnDelete:CASCADE"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }

func newTaskModel(t *domain.Task) *taskModel {
	return &taskModel{
		ID:             t.ID,
		UserID:         t.UserID,
		Title:          t.Title,
		Description:    t.Description,
		StartDate:      t.StartDate,
		DueDate:        t.DueDate,
		CompletionDate: t.CompletionDate,
		Status:         string(t.Status),
	}
}

func (m taskModel) toDomain() domain.Task {
	return domain.Task{
		ID:             m.ID,
		UserID:         m.UserID,
		Title:          m.Title,
		Description:    m.Description,
		StartDate:      m.StartDate,
		DueDate:        m.DueDate,
		CompletionDate: m.CompletionDate,
		Status:         domain.TaskStatus(m.Status),
	}
}

func newDeletedTaskModel(d *domain.DeletedTask) *deletedTaskModel {
	return &deletedTaskModel{
		UserID:         d.UserID,
		Title:          d.Title,
		Description:    d.Description,
		StartDate:      d.StartDate,
		DueDate:        d.DueDate,
		CompletionDate: d.CompletionDate,
		Status:         string(d.Status),
		DeletionTime:   d.DeletionTime.UTC(),
	}
}

func (m deletedTaskModel) toDomain() domain.DeletedTask {
	return domain.DeletedTask{
		ID:             m.ID,
		UserID:         m.UserID,
		Title:          m.Title,
		Description:    m.Description,
		StartDate:      m.StartDate,
		DueDate:        m.DueDate,
		CompletionDate: m.CompletionDate,
		Status:         domain.TaskStatus(m.Status),
		DeletionTime:   m.DeletionTime.UTC(),
	}
}

func (m userModel) toDomain() domain.User {
	return domain.User{ID: m.ID, Username: m.Username, Email: m.Email, PasswordHash: m.PasswordHash}
}

func (m subscriptionModel) toDomain() domain.Subscription {
	return domain.Subscription{ID: m.ID, UserID: m.UserID, Frequency: domain.Frequency(m.Frequency)}
}
