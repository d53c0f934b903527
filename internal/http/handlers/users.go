package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SignUp(c *gin.Context) {
	var req service.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Couldn't create user", err)
		return
	}

	u, err := h.Users.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Couldn't create user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// SignIn returns the token in the body and also sets it as a cookie, so
// clients that block cross-site cookies can send it as a bearer header.
func (h *Handler) SignIn(c *gin.Context) {
	var req service.SignInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Couldn't login user", err)
		return
	}

	sess, err := h.Users.SignIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Couldn't login user", err)
		return
	}

	maxAge := h.Cookie.MaxAge
	if maxAge <= 0 {
		maxAge = int(service.TokenTTL.Seconds())
	}
	h.setSessionCookie(c, sess.Token, maxAge)
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) SignOut(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, "Couldn't get users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Couldn't update user", err)
		return
	}

	u, err := h.Users.UpdateUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, "Couldn't update user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	u, err := h.Users.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Couldn't delete user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}
