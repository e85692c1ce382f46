package server

import (
	"net/http"

	"market-analyzer/src/auth"
	"market-analyzer/src/helpers"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) postRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		s.writeError(c, helpers.NewError(helpers.ErrValidation, "Invalid request body", err))
		return
	}

	user, err := s.Deps.Users.Register(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful! Please login.",
		"username": user.Username,
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) postLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		s.writeError(c, helpers.NewError(helpers.ErrValidation, "Please fill in all fields", err))
		return
	}

	user, err := s.Deps.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	token := s.Deps.Sessions.Create(user.ID)
	maxAge := int(s.Deps.Sessions.TTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", s.Config.Auth.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged in successfully!",
		"username": user.Username,
		"token":    token,
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) postLogout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		s.Deps.Sessions.Delete(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", s.Config.Auth.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getProfile(c *gin.Context) {
	user, err := s.Deps.Users.FindByID(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if user == nil {
		s.writeError(c, helpers.NewError(helpers.ErrUnauthorized, "Please log in to access this page", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt.Format("2006-01-02"),
	})
}
