package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
	"github.com/yukikurage/task-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type addressRequest struct {
	StreetNo   string `json:"street_no"`
	StreetName string `json:"street_name"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostCode   string `json:"post_code"`
}

func (r *addressRequest) input() *services.AddressInput {
	if r == nil {
		return nil
	}
	return &services.AddressInput{
		StreetNo:   r.StreetNo,
		StreetName: r.StreetName,
		City:       r.City,
		State:      r.State,
		PostCode:   r.PostCode,
	}
}

// UserSignup registers a task owner.
func (h *AuthHandler) UserSignup(c *gin.Context) {
	type SignupRequest struct {
		Username  string          `json:"username" binding:"required,max=50"`
		Password  string          `json:"password" binding:"required"`
		FirstName string          `json:"first_name"`
		LastName  string          `json:"last_name"`
		Email     string          `json:"email"`
		Mobile    string          `json:"mobile"`
		Address   *addressRequest `json:"address"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), services.RegisterUserInput{
		CredentialsInput: services.CredentialsInput{Username: req.Username, Password: req.Password},
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Mobile:           req.Mobile,
		Address:          req.Address.input(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ProviderSignup registers an individual or company provider.
func (h *AuthHandler) ProviderSignup(c *gin.Context) {
	type IndividualRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	type CompanyRequest struct {
		CompanyName       string `json:"company_name"`
		BusinessTaxNumber string `json:"business_tax_number"`
		RepFirstName      string `json:"representative_first_name"`
		RepLastName       string `json:"representative_last_name"`
	}
	type SignupRequest struct {
		Username          string             `json:"username" binding:"required,max=50"`
		Password          string             `json:"password" binding:"required"`
		ProviderType      string             `json:"provider_type" binding:"required"`
		Email             string             `json:"email"`
		Mobile            string             `json:"mobile"`
		Address           *addressRequest    `json:"address"`
		IndividualDetails *IndividualRequest `json:"individual_details"`
		CompanyDetails    *CompanyRequest    `json:"company_details"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.RegisterProviderInput{
		CredentialsInput: services.CredentialsInput{Username: req.Username, Password: req.Password},
		ProviderType:     models.ProviderType(req.ProviderType),
		Email:            req.Email,
		Mobile:           req.Mobile,
		Address:          req.Address.input(),
	}
	if d := req.IndividualDetails; d != nil {
		input.Individual = &services.IndividualInput{FirstName: d.FirstName, LastName: d.LastName}
	}
	if d := req.CompanyDetails; d != nil {
		input.Company = &services.CompanyInput{
			CompanyName:   d.CompanyName,
			BusinessTaxNo: d.BusinessTaxNumber,
			RepFirstName:  d.RepFirstName,
			RepLastName:   d.RepLastName,
		}
	}

	provider, err := h.authService.RegisterProvider(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProviderDTO(*provider))
}

// Login authenticates an account, stores the identity token in the session
// and returns it for bearer use.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, result.Token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:   result.Token,
		ActorID: result.Caller.ActorID,
		Role:    result.Caller.Role,
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated caller with its profile.
func (h *AuthHandler) Me(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	profile, err := h.authService.Me(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.MeResponse{ActorID: caller.ActorID, Role: caller.Role}
	if profile.User != nil {
		user := dto.ToUserDTO(*profile.User)
		resp.User = &user
	}
	if profile.Provider != nil {
		provider := dto.ToProviderDTO(*profile.Provider)
		resp.Provider = &provider
	}
	c.JSON(http.StatusOK, resp)
}
