package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/vector-10/wallet-service-lendsqr/internal/services/karma"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/user"
	"github.com/vector-10/wallet-service-lendsqr/internal/utils"
)

var validate = validator.New()

// UserHandler exposes the registration and login endpoints.
type UserHandler struct {
	userService user.Service
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Phone     string `json:"phone" validate:"required,max=20"`
	BVN       string `json:"bvn" validate:"required,len=11,numeric"`
	Password  string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return utils.BadRequest(c, "Invalid field: "+verrs[0].Field())
		}
		return utils.BadRequest(c, "Invalid request")
	}

	result, err := h.userService.Register(c.Context(), user.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		BVN:       req.BVN,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailInUse):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, user.ErrIdentityBlacklisted):
			return utils.Error(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, karma.ErrVerificationFailed):
			return utils.Error(c, fiber.StatusServiceUnavailable, err.Error())
		default:
			return utils.InternalError(c, "Failed to create account")
		}
	}

	return utils.Created(c, "Account created successfully", result)
}

// Login handles POST /api/login.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return utils.BadRequest(c, "Email and password are required")
	}

	result, err := h.userService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return utils.Unauthorized(c, err.Error())
		case errors.Is(err, user.ErrAccountBlacklisted), errors.Is(err, user.ErrAccountSuspended):
			return utils.Error(c, fiber.StatusForbidden, err.Error())
		default:
			return utils.InternalError(c, "Login failed")
		}
	}

	return utils.Success(c, "Login successful", result)
}
