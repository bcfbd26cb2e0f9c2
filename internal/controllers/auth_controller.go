package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet_manager/internal/config"
	"fleet_manager/internal/middleware"
	"fleet_manager/internal/models"
)

type registerInput struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// Index is the public landing endpoint.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "fleet_manager", "status": "ok"})
}

// RegisterUser handles public self-signup. Accounts created here always
// get the "staff" role.
func RegisterUser(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	user, err := createUserWithRole(input, models.RoleStaff)
	if err != nil {
		respondUserCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": prepareUserResponse(user), "redirect": middleware.LoginPath})
}

// LoginUser verifies credentials and issues a token plus the dashboard
// path matching the user's role.
func LoginUser(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := config.DB.Where("username = ?", body.Username).Preload("Profile")
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	role := roleOf(user)
	landing := landingFor(role, user.IsSuperuser)
	if landing == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "role not assigned to this user"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, role, user.IsSuperuser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user":     prepareUserResponse(user),
		"redirect": landing,
	})
}

// LogoutUser acknowledges logout. Tokens are stateless, so the client
// just drops its copy.
func LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out", "redirect": middleware.LoginPath})
}

// WhoAmI returns the acting user, their role and how many vehicles are
// currently assigned to them.
func WhoAmI(c *gin.Context) {
	userID := middleware.UserID(c)

	var user models.User
	if err := config.DB.Preload("Profile").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var assigned int64
	config.DB.Model(&models.Vehicle{}).Where("driver_id = ?", userID).Count(&assigned)

	c.JSON(http.StatusOK, gin.H{
		"user":     prepareUserResponse(user),
		"role":     roleOf(user),
		"assigned": assigned,
	})
}

// landingFor maps a role to its dashboard path. Superusers without a
// profile land on the admin dashboard.
func landingFor(role string, superuser bool) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard/"
	case models.RoleStaff:
		return "/staff/dashboard/"
	case models.RoleDriver:
		return "/driver/dashboard/"
	}
	if superuser {
		return "/admin/dashboard/"
	}
	return ""
}

// roleOf returns the user's normalized role, or "" when no profile
// exists. Callers handle the absent case explicitly.
func roleOf(user models.User) string {
	if user.Profile == nil {
		return ""
	}
	return strings.ToLower(user.Profile.Role)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// createUserWithRole creates a user and its profile in one transaction.
// The username must be free; a duplicate yields errUsernameTaken.
func createUserWithRole(input registerInput, role string) (models.User, error) {
	hashed, err := hashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errUsernameTaken
		}

		user = models.User{
			Username:  input.Username,
			Email:     input.Email,
			Password:  hashed,
			FirstName: input.FirstName,
			LastName:  input.LastName,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.Profile{UserID: user.ID, Role: strings.ToLower(role)}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile
		return nil
	})
	return user, err
}

var errUsernameTaken = errors.New("username already taken")

// respondUserCreateError maps account-creation failures onto the HTTP
// taxonomy. The pq check is a backstop for a create racing the
// existence pre-check.
func respondUserCreateError(c *gin.Context, err error) {
	if errors.Is(err, errUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": errUsernameTaken.Error()})
		return
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		c.JSON(http.StatusConflict, gin.H{"error": errUsernameTaken.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
}

func prepareUserResponse(user models.User) gin.H {
	resp := gin.H{
		"ID":           user.ID,
		"CreatedAt":    user.CreatedAt,
		"username":     user.Username,
		"email":        user.Email,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"is_superuser": user.IsSuperuser,
	}
	if user.Profile != nil {
		resp["role"] = strings.ToLower(user.Profile.Role)
	}
	return resp
}
