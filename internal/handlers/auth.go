package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/auth"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/user"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type AuthHandler struct {
	authService auth.Service
	userService user.Service
}

func NewAuthHandler(authSvc auth.Service, userSvc user.Service) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
		userService: userSvc,
	}
}

// Register creates a new account and returns it together with a token pair.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	created, err := h.userService.Register(&input)
	if err != nil {
		return response.FromError(c, err)
	}

	// Log the new user straight in
	_, accessToken, refreshToken, err := h.authService.Login(created.Email, "", input.Password, c.IP())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Registration successful", fiber.Map{
		"user":          created.Public(),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.Email == "" && input.Phone == "" {
		return response.BadRequest(c, "email or phone is required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Phone, input.Password, c.IP())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Login successful", fiber.Map{
		"user":          user.Public(),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	return response.Success(c, "Token refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	if err := h.authService.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "failed to log out")
	}
	return response.Success(c, "Logged out", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Password changed", nil)
}
