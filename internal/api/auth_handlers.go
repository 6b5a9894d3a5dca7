package api

import (
	"errors"
	"net/http"

	"svgshare/internal/auth"
	"svgshare/internal/database"
	"svgshare/internal/models"

	"github.com/sirupsen/logrus"
)

// @Summary      Start GitHub login
// @Description  Stores a random state in a short-lived cookie and redirects to the provider.
// @Tags         auth
// @Success      302
// @Failure      429  {string}  string "Too Many Requests"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/login [get]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state := auth.NewState()
	auth.SetStateCookie(w, state, s.cookie.Secure)
	http.Redirect(w, r, s.provider.AuthCodeURL(state), http.StatusFound)
}

// @Summary      OAuth callback
// @Description  Exchanges the code, signs the user in (creating the account on first login) and redirects to the dashboard.
// @Tags         auth
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "OAuth state"
// @Success      302
// @Failure      400    {string}  string "Missing code / Invalid OAuth state / provider error"
// @Failure      500    {string}  string "Auth Error"
// @Router       /auth/callback [get]
func (s *Server) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		http.Error(w, "Missing code", http.StatusBadRequest)
		return
	}
	if !auth.CheckState(r, query.Get("state")) {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	auth.ClearStateCookie(w, s.cookie.Secure)

	profile, err := s.provider.Exchange(r.Context(), code)
	if err != nil {
		var providerErr *auth.ProviderError
		if errors.As(err, &providerErr) {
			http.Error(w, providerErr.Message, providerErr.Status)
			return
		}
		s.logger.WithError(err).Error("oauth exchange failed")
		http.Error(w, "Auth Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	user, created, err := s.store.GetOrCreateUser(r.Context(), s.newUserParams(profile))
	if err != nil {
		s.logger.WithError(err).WithField("github_id", profile.ID).Error("failed to resolve user")
		http.Error(w, "Auth Error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if created {
		s.logger.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
			"role":     user.Role,
			"status":   user.Status,
		}).Info("user registered")
	}

	token, err := auth.GenerateSessionToken(user.ID, s.config.Session.Secret, s.config.Session.TTL)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to sign session")
		http.Error(w, "Auth Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, s.cookie, token)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// newUserParams picks the defaults a first-time user is created with.
func (s *Server) newUserParams(profile *auth.Profile) database.CreateUserParams {
	params := database.CreateUserParams{
		GithubID:     profile.ID,
		Username:     profile.Login,
		AvatarURL:    profile.AvatarURL,
		Role:         models.RoleUser,
		Status:       models.StatusPending,
		StorageLimit: s.config.Upload.DefaultQuota,
	}
	if s.config.Auth.AutoApprove {
		params.Status = models.StatusActive
	}
	if s.config.Auth.IsAdmin(profile.ID) {
		params.Role = models.RoleAdmin
		params.Status = models.StatusActive
	}
	return params
}

// @Summary      Log out
// @Tags         auth
// @Success      302
// @Router       /auth/logout [get]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.cookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

// @Summary      Current user
// @Description  Returns the signed-in user with total storage used. Pending and locked users may call it.
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  models.UserWithUsage
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/me [get]
func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	me, err := s.store.GetUserWithUsage(r.Context(), user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to load current user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if me == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, me)
}
