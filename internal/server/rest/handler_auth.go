package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

func (s *HTTPServer) getCSRFToken(c *gin.Context) {
	clientHalf, serverHalf, err := s.csrf.IssuePair()
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	http.SetCookie(c.Writer, s.csrf.Cookie(serverHalf))
	c.JSON(http.StatusOK, gin.H{"csrf_token": clientHalf})
}

func (s *HTTPServer) register(c *gin.Context) {
	if err := s.guard.ValidateCSRF(s.csrfPair(c)); err != nil {
		s.abortWithError(c, err)
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, "email and password must be sent as JSON")
		return
	}

	info, err := s.accounts.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.clearCSRFCookie(c)
	c.JSON(http.StatusOK, info)
}

func (s *HTTPServer) login(c *gin.Context) {
	if err := s.guard.ValidateCSRF(s.csrfPair(c)); err != nil {
		s.abortWithError(c, err)
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, "email and password must be sent as JSON")
		return
	}

	token, err := s.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setIdentityCookie(c, token)
	s.clearCSRFCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged-in"})
}

func (s *HTTPServer) logout(c *gin.Context) {
	if err := s.guard.ValidateCSRF(s.csrfPair(c)); err != nil {
		s.abortWithError(c, err)
		return
	}

	s.clearIdentityCookie(c)
	s.clearCSRFCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged-out"})
}

func (s *HTTPServer) currentUser(c *gin.Context) {
	token, subject, err := s.guard.VerifyAndRotate(s.identityCookie(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setIdentityCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"email": subject})
}
