package handlers

import (
	"net/http"

	"devtrack-backend/internal/middleware"
	"devtrack-backend/internal/services"
)

type GitHubHandler struct {
	projectService *services.ProjectService
}

func NewGitHubHandler(projectService *services.ProjectService) *GitHubHandler {
	return &GitHubHandler{projectService: projectService}
}

// Repos lists the user's GitHub repos that can still be imported.
func (h *GitHubHandler) Repos(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	repos, err := h.projectService.ImportableRepos(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"repos": repos})
}
