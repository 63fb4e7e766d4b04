package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/accountd/accountd/internal/auth"
)

// UserHandlers provides HTTP handlers for user operations
type UserHandlers struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(service UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the user routes on the given group. The group is
// expected to already carry the authentication middleware.
func (h *UserHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.ListUsers)
	router.GET("/:id", h.GetUser)
	router.PUT("/:id", h.UpdateUser)
	router.DELETE("/:id", h.DeleteUser)
}

// ListUsers returns every user. Requires authentication only.
func (h *UserHandlers) ListUsers(c *gin.Context) {
	h.logger.Info("Getting users")

	allUsers, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully retrieved users",
		"users":   allUsers,
		"count":   len(allUsers),
	})
}

// GetUser returns a single user by id. Requires authentication only.
func (h *UserHandlers) GetUser(c *gin.Context) {
	id, err := ValidateUserID(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}

	h.logger.Info("Getting user by ID", zap.Int64("user_id", id))

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully retrieved user",
		"user":    user,
	})
}

// UpdateUser applies a partial update. Users may update their own record,
// admins may update any record, and only admins may change a role.
func (h *UserHandlers) UpdateUser(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}

	id, err := ValidateUserID(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, ValidationErrors{{Field: "body", Message: "Invalid request body"}})
		return
	}

	patch, verr := ValidateUpdate(req)
	if verr != nil {
		respondValidation(c, verr)
		return
	}

	if d := CanApplyPatch(principal, id, patch); !d.Allowed {
		h.logger.Warn("Update denied",
			zap.String("email", principal.Email),
			zap.Int64("target_id", id),
			zap.String("reason", d.Reason))

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": d.Reason,
		})
		return
	}

	h.logger.Info("Updating user", zap.Int64("user_id", id))

	user, err := h.service.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser removes a user. Users may delete their own account, admins may
// delete any account.
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Authentication required",
		})
		return
	}

	id, err := ValidateUserID(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}

	if d := CanModifyUser(principal, id); !d.Allowed {
		h.logger.Warn("Delete denied",
			zap.String("email", principal.Email),
			zap.Int64("target_id", id),
			zap.String("reason", d.Reason))

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": d.Reason,
		})
		return
	}

	h.logger.Info("Deleting user", zap.Int64("user_id", id))

	user, err := h.service.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"user":    user,
	})
}

// fail maps typed service errors onto the response envelope. Unclassified
// errors are logged, recorded on the context for the surrounding error
// reporting, and answered with a generic 500 body.
func (h *UserHandlers) fail(c *gin.Context, err error) {
	if IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "User not found",
			"message": "The requested user does not exist",
		})
		return
	}

	h.logger.Error("User operation failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	_ = c.Error(err)

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": "Something went wrong",
	})
}

// respondValidation writes the 400 envelope with field-level detail
func respondValidation(c *gin.Context, err error) {
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		verrs = ValidationErrors{{Field: "body", Message: err.Error()}}
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Validation failed",
		"detail": verrs,
	})
}
