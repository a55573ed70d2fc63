package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"devtrack-backend/internal/middleware"
	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
)

const (
	oauthStateTTL   = 10 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
	accessExpiresIn = 900 // seconds, matches the JWT expiry

	githubAuthorizeURL = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubScope        = "read:user repo user:email"
)

type AuthService struct {
	userRepo     *repository.UserRepo
	redis        *redis.Client
	jwt          *middleware.JWTAuth
	github       *GitHubService
	clientID     string
	clientSecret string
	redirectURL  string
	httpClient   *http.Client
}

func NewAuthService(userRepo *repository.UserRepo, redisClient *redis.Client, jwt *middleware.JWTAuth, github *GitHubService, clientID, clientSecret, redirectURL string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		redis:        redisClient,
		jwt:          jwt,
		github:       github,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// LoginURL builds the GitHub authorize URL with a single-use state token.
func (s *AuthService) LoginURL(ctx context.Context) (*models.LoginURLResponse, error) {
	state, err := generateToken(16)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, "oauth_state:"+state, "1", oauthStateTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store oauth state: %w", err)
	}

	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURL)
	q.Set("scope", githubScope)
	q.Set("state", state)

	return &models.LoginURLResponse{
		AuthorizeURL: githubAuthorizeURL + "?" + q.Encode(),
		State:        state,
	}, nil
}

// Callback exchanges the OAuth code, upserts the GitHub user and issues tokens.
func (s *AuthService) Callback(ctx context.Context, req models.CallbackRequest) (*models.AuthTokens, error) {
	if req.Code == "" || req.State == "" {
		return nil, &ValidationError{Fields: map[string]string{"code": "code and state are required"}}
	}

	deleted, err := s.redis.Del(ctx, "oauth_state:"+req.State).Result()
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, &UnauthorizedError{Message: "Invalid or expired OAuth state"}
	}

	accessToken, err := s.exchangeCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	ghUser, err := s.github.AuthenticatedUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		GitHubID:    ghUser.ID,
		Login:       ghUser.Login,
		Name:        ghUser.Name,
		Email:       ghUser.Email,
		AvatarURL:   ghUser.AvatarURL,
		AccessToken: accessToken,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.redirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, githubTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", &UnauthorizedError{Message: "GitHub rejected the authorization code"}
	}

	return body.AccessToken, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Login)
	if err != nil {
		return nil, err
	}

	refresh, err := generateToken(32)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, "refresh:"+refresh, user.ID.String(), refreshTokenTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    accessExpiresIn,
	}, nil
}

// Refresh rotates a refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	userIDStr, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token"}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token"}
	}

	// Single use: drop the old token before issuing a new one
	s.redis.Del(ctx, "refresh:"+refreshToken)

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	s.redis.Del(ctx, "refresh:"+refreshToken)
}

func generateToken(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
