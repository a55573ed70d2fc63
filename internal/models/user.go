package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	GitHubID    int64     `json:"github_id"`
	Login       string    `json:"login"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	AvatarURL   *string   `json:"avatar_url"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type LoginURLResponse struct {
	AuthorizeURL string `json:"authorize_url"`
	State        string `json:"state"`
}

type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
