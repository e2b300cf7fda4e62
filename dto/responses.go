package dto

import (
	"time"

	"github.com/mddforum/mdd-api/models"
)

// DateLayout renders user timestamps as yyyy/MM/dd.
const DateLayout = "2006/01/02"

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// UpdateUserResponse returns the new profile with a token for the possibly changed email.
type UpdateUserResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type SubjectResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SubjectWithSubscriptionResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsSubscribed bool   `json:"isSubscribed"`
}

// PostResponse flattens author and subject to their display names.
type PostResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostDetailsResponse = PostResponse

type CommentResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthorizationURLResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	State            string `json:"state"`
}

type StatsResponse struct {
	Users         int64 `json:"users"`
	Subjects      int64 `json:"subjects"`
	Posts         int64 `json:"posts"`
	Comments      int64 `json:"comments"`
	Subscriptions int64 `json:"subscriptions"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: formatDate(u.CreatedAt),
		UpdatedAt: formatDate(u.UpdatedAt),
	}
}

func NewSubjectResponse(s models.Subject) SubjectResponse {
	return SubjectResponse{ID: s.ID, Name: s.Name, Description: s.Description}
}

func NewSubjectResponses(subjects []models.Subject) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, NewSubjectResponse(s))
	}
	return out
}

func NewSubjectWithSubscription(s models.Subject, subscribed bool) SubjectWithSubscriptionResponse {
	return SubjectWithSubscriptionResponse{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		IsSubscribed: subscribed,
	}
}

func NewSubjectStatusResponses(rows []models.SubjectWithStatus) []SubjectWithSubscriptionResponse {
	out := make([]SubjectWithSubscriptionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewSubjectWithSubscription(r.Subject, r.Subscribed()))
	}
	return out
}

func NewPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author.Username,
		Subject:   p.Subject.Name,
		CreatedAt: p.CreatedAt,
	}
}

func NewPostResponses(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    c.Author.Username,
		CreatedAt: c.CreatedAt,
	}
}

func NewCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
