package controllers

import (
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/resp"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Svc: s} }

// POST /auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := a.Svc.Register(req)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.CreatedWith(c, user, resp.Extra{Message: "Account created. Please log in.", Redirect: "/auth/login"})
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, user, err := a.Svc.Login(req.Email, req.Password)
	if err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OKWith(c, gin.H{"token": token, "user": user}, resp.Extra{Redirect: "/restaurants"})
}

// POST /auth/logout
// Tokens are stateless; logging out drops the session and the cart with it.
func (a *AuthController) Logout(c *gin.Context) {
	if err := clearCart(c); err != nil {
		resp.Error(c, err, "")
		return
	}
	resp.OKWith(c, nil, resp.Extra{Message: "You have been logged out.", Redirect: "/auth/login"})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Svc.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		if services.IsNotFound(err) {
			resp.Unauthorized(c, "user not found")
			return
		}
		resp.Error(c, err, "")
		return
	}
	resp.OK(c, user)
}
