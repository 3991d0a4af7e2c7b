package rest

import (
	"net/http"

	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/gin-gonic/gin"
)

type taskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (r taskRequest) body() models.TaskBody {
	return models.TaskBody{Title: r.Title, Description: r.Description}
}

// rotateWithCSRF guards a mutating request. The replacement token is only
// returned once both the CSRF pair and the identity cookie check out.
func (s *HTTPServer) rotateWithCSRF(c *gin.Context) (string, bool) {
	header, cookie := s.csrfPair(c)
	token, _, err := s.guard.VerifyCSRFAndRotate(s.identityCookie(c), header, cookie)
	if err != nil {
		s.abortWithError(c, err)
		return "", false
	}
	return token, true
}

func (s *HTTPServer) createTask(c *gin.Context) {
	token, ok := s.rotateWithCSRF(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, "title is required")
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), req.body())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setIdentityCookie(c, token)
	c.JSON(http.StatusCreated, task)
}

func (s *HTTPServer) listTasks(c *gin.Context) {
	if _, err := s.guard.VerifyOnly(s.identityCookie(c)); err != nil {
		s.abortWithError(c, err)
		return
	}

	items, err := s.tasks.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) getTask(c *gin.Context) {
	token, _, err := s.guard.VerifyAndRotate(s.identityCookie(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	task, err := s.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setIdentityCookie(c, token)
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) updateTask(c *gin.Context) {
	token, ok := s.rotateWithCSRF(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBadRequest(c, "title is required")
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), c.Param("id"), req.body())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setIdentityCookie(c, token)
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	token, ok := s.rotateWithCSRF(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}

	s.setIdentityCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Deletion of the task is completed"})
}
