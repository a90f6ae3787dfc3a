package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"mydiary/internal/models"
)

type DiarySummaryResponse struct {
	DiaryID   string    `json:"diaryId"`
	Title     string    `json:"title"`
	Emotion   *string   `json:"emotion"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

type ImageResponse struct {
	ImageID  string `json:"imageId"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type DiaryDetailResponse struct {
	DiaryID   string          `json:"diaryId"`
	Title     string          `json:"title"`
	Content   *string         `json:"content"`
	Emotion   *string         `json:"emotion"`
	Tags      []string        `json:"tags"`
	Images    []ImageResponse `json:"images"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type DiaryListResponse struct {
	Diaries    []DiarySummaryResponse `json:"diaries"`
	Pagination models.Pagination      `json:"pagination"`
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func toSummary(diary models.Diary) DiarySummaryResponse {
	return DiarySummaryResponse{
		DiaryID:   diary.DiaryID,
		Title:     diary.Title,
		Emotion:   diary.Emotion,
		Tags:      nonNilTags(diary.Tags),
		CreatedAt: diary.CreatedAt,
	}
}

func toDetail(diary *models.Diary) DiaryDetailResponse {
	images := make([]ImageResponse, 0, len(diary.Images))
	for _, image := range diary.Images {
		images = append(images, ImageResponse{
			ImageID:  image.ImageID,
			URL:      image.URL,
			Filename: image.Filename,
		})
	}

	return DiaryDetailResponse{
		DiaryID:   diary.DiaryID,
		Title:     diary.Title,
		Content:   diary.Content,
		Emotion:   diary.Emotion,
		Tags:      nonNilTags(diary.Tags),
		Images:    images,
		CreatedAt: diary.CreatedAt,
		UpdatedAt: diary.UpdatedAt,
	}
}

// principal returns the authenticated caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := models.PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
	}
	return p, ok
}

// queryInt parses a query parameter; absent or malformed values yield 0 and
// are normalised by the service.
func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}

func (h *Handlers) ListDiaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	query := models.DiaryQuery{
		Keyword: r.URL.Query().Get("q"),
		Tag:     r.URL.Query().Get("tag"),
		Month:   r.URL.Query().Get("month"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	}

	page, err := h.DiaryService.List(r.Context(), p.UserID, query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	diaries := make([]DiarySummaryResponse, 0, len(page.Diaries))
	for _, diary := range page.Diaries {
		diaries = append(diaries, toSummary(diary))
	}

	writeSuccess(w, DiaryListResponse{Diaries: diaries, Pagination: page.Pagination}, http.StatusOK)
}

func (h *Handlers) CreateDiary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.DiaryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	diary, err := h.DiaryService.Create(r.Context(), p.UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, toDetail(diary), http.StatusCreated)
}

func (h *Handlers) GetDiary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	diary, err := h.DiaryService.Get(r.Context(), p.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, toDetail(diary), http.StatusOK)
}

func (h *Handlers) UpdateDiary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.DiaryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	diary, err := h.DiaryService.Update(r.Context(), p.UserID, mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, toDetail(diary), http.StatusOK)
}

func (h *Handlers) DeleteDiary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.DiaryService.Delete(r.Context(), p.UserID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
