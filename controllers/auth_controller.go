// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/leadflow_backend/config"
	"github.com/leadflow/leadflow_backend/middleware"
	"github.com/leadflow/leadflow_backend/models"
	"github.com/leadflow/leadflow_backend/repositories"
	"github.com/leadflow/leadflow_backend/utils"
)

// AuthController contains signup and login logic
type AuthController struct {
	DB         *mongo.Client
	userRepo   *repositories.UserRepository
	tenantRepo *repositories.TenantRepository
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{
		DB:         db,
		userRepo:   repositories.NewUserRepository(db),
		tenantRepo: repositories.NewTenantRepository(db),
	}
}

// Signup registers a user. When a tenant name is provided the user's first
// tenant is created alongside, with an admin membership.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if _, err := ac.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return fail(c, http.StatusConflict, "Email already registered")
	} else if err != mongo.ErrNoDocuments {
		return fail(c, http.StatusInternalServerError, "Failed to check existing user")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to process password")
	}

	user, err := ac.userRepo.Create(ctx, models.User{
		Email:    req.Email,
		Password: hashed,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create user")
	}

	if req.TenantName != "" {
		tenant, err := ac.tenantRepo.CreateTenant(ctx, models.Tenant{
			Name:     req.TenantName,
			Industry: req.Industry,
			Email:    req.Email,
		}, user.ID)
		if err != nil {
			log.Printf("Failed to create tenant for new user %s: %v", user.ID.Hex(), err)
		} else {
			if err := utils.SaveActiveTenant(config.GetRedisClient(), user.ID.Hex(), tenant.ID.Hex()); err != nil {
				log.Printf("Failed to persist active tenant: %v", err)
			}
		}
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.IsSuperAdmin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to generate token")
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Signup successful",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         user,
		},
	})
}

// Login authenticates by email and password.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	user, err := ac.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return fail(c, http.StatusInternalServerError, "Failed to find user")
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	if err := ac.userRepo.TouchActivity(ctx, user.ID); err != nil {
		log.Printf("Failed to update last activity for %s: %v", user.ID.Hex(), err)
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.IsSuperAdmin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to generate token")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         *user,
		},
	})
}

// GetProfile returns the authenticated user's profile.
func (ac *AuthController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := resolveSession(ctx, c, ac.tenantRepo)
	if err != nil {
		return err
	}

	user, err := ac.userRepo.FindByID(ctx, s.UserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to find user")
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data: map[string]interface{}{
			"user":    user,
			"role":    s.Role,
			"isAdmin": s.IsAdmin(),
		},
	})
}
