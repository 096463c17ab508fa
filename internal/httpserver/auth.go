package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(auth authClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := auth.Login(c.Request.Context(), req.Email, req.Password); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(auth))
	}
}

func logoutHandler(auth authClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.Logout()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func sessionHandler(auth authClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sessionBody(auth))
	}
}

func sessionBody(auth authClient) gin.H {
	body := gin.H{"authenticated": auth.Authenticated()}
	if exp := auth.TokenExpiry(); !exp.IsZero() {
		body["tokenExpiresAt"] = exp
	}
	return body
}
