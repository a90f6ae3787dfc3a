package models

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72,letterdigit"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ImageRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Data     string `json:"data" validate:"required"`
}

// DiaryRequest is shared by create and update. A nil Tags or Images slice
// means the field was omitted; an empty slice clears it on update.
type DiaryRequest struct {
	Title   string         `json:"title" validate:"required,max=255"`
	Content *string        `json:"content" validate:"omitempty,max=65535"`
	Emotion *string        `json:"emotion" validate:"omitempty,max=20"`
	Tags    []string       `json:"tags" validate:"omitempty,dive,required,max=50"`
	Images  []ImageRequest `json:"images" validate:"omitempty,dive"`
}

type DiaryQuery struct {
	Keyword string
	Tag     string
	Month   string
	Page    int
	Limit   int
}

type UpdateSettingsRequest struct {
	Theme        string `json:"theme" validate:"required,oneof=light dark"`
	ReminderTime string `json:"reminderTime" validate:"omitempty,datetime=15:04"`
}

type AuthResult struct {
	User  *User
	Token string
}
