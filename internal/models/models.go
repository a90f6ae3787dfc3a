package models

import (
	"time"
)

type User struct {
	UserID       string    `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Theme        string    `json:"theme" db:"theme"`
	ReminderTime *string   `json:"reminderTime" db:"reminder_time"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type Diary struct {
	DiaryID   string    `json:"diaryId" db:"diary_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   *string   `json:"content" db:"content"`
	Emotion   *string   `json:"emotion" db:"emotion"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Tags      []string  `json:"tags" db:"-"`
	Images    []Image   `json:"images" db:"-"`
}

type Tag struct {
	TagID int64  `json:"tagId" db:"tag_id"`
	Name  string `json:"name" db:"name"`
}

type Image struct {
	ImageID   string    `json:"imageId" db:"image_id"`
	DiaryID   string    `json:"diaryId" db:"diary_id"`
	URL       string    `json:"url" db:"url"`
	Filename  string    `json:"filename" db:"filename"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type DiaryPage struct {
	Diaries    []Diary
	Pagination Pagination
}

// DiaryFilter is the storage-level query. At most one of Keyword, TagName or
// the From/To window is set by the service.
type DiaryFilter struct {
	UserID  string
	Keyword string
	TagName string
	From    *time.Time
	To      *time.Time
}
