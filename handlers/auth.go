// handlers/auth.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/repository"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// errInvalidCredentials never says which of username or password was wrong.
var errInvalidCredentials = apierr.Unauthorized("invalid username or password")

type registerReq struct {
	Username        string `json:"username" validate:"required,min=3,max=50,username"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=admin supervisor"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      userPayload `json:"user"`
}

type userPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthOptions tune the register and login endpoints.
type AuthOptions struct {
	// PasswordStrengthChecks requires upper case, lower case and a digit.
	PasswordStrengthChecks bool
	// FailureDelay is slept before answering any failed login.
	FailureDelay time.Duration
}

type AuthHandler struct {
	users    *repository.UserRepo
	tokens   *middleware.TokenIssuer
	opts     AuthOptions
	validate *validator.Validate
	sleep    func(time.Duration)
}

func NewAuthHandler(users *repository.UserRepo, tokens *middleware.TokenIssuer, opts AuthOptions) *AuthHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &AuthHandler{users: users, tokens: tokens, opts: opts, validate: v, sleep: time.Sleep}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	if details := h.registerViolations(req); len(details) > 0 {
		middleware.WriteError(w, r, apierr.Validation("validation failed", details...))
		return
	}

	taken, err := h.users.UsernameExists(r.Context(), req.Username)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if taken {
		middleware.WriteError(w, r, repository.ErrUsernameTaken)
		return
	}

	// hash pw
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("hash password: %w", err))
		return
	}
	u := models.User{Username: req.Username, PasswordHash: string(hash), Role: req.Role}
	if err := h.users.Create(r.Context(), &u); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.LoggerFrom(r.Context()).Info("user registered", "username", u.Username, "role", u.Role)
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered",
		"user":    userPayload{ID: u.ID, Username: u.Username, Role: u.Role},
	})
}

// registerViolations returns one readable message per failed rule.
func (h *AuthHandler) registerViolations(req registerReq) []string {
	var details []string
	if err := h.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return []string{err.Error()}
		}
		for _, fe := range ve {
			details = append(details, violationMessage(fe))
		}
	}
	if h.opts.PasswordStrengthChecks && req.Password != "" {
		details = append(details, passwordStrength(req.Password)...)
	}
	return details
}

func violationMessage(fe validator.FieldError) string {
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return field + " may only contain letters, digits and underscores"
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}

func fieldName(structField string) string {
	switch structField {
	case "ConfirmPassword":
		return "confirmPassword"
	}
	return strings.ToLower(structField)
}

func passwordStrength(pw string) []string {
	var upper, lower, digit bool
	for _, c := range pw {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	var out []string
	if !upper {
		out = append(out, "password must contain an upper case letter")
	}
	if !lower {
		out = append(out, "password must contain a lower case letter")
	}
	if !digit {
		out = append(out, "password must contain a digit")
	}
	return out
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		middleware.WriteError(w, r, apierr.Validation("username and password are required"))
		return
	}

	u, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		h.sleep(h.opts.FailureDelay)
		middleware.LoggerFrom(r.Context()).Warn("login failed", "username", req.Username)
		middleware.WriteError(w, r, errInvalidCredentials)
		return
	}

	token, err := h.tokens.Generate(u.ID, u.Username, u.Role)
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("sign token: %w", err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, loginResp{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokens.TTL()).UTC(),
		User:      userPayload{ID: u.ID, Username: u.Username, Role: u.Role},
	})
}

// Dashboard echoes the identity carried by the bearer token.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		middleware.WriteError(w, r, middleware.ErrMissingToken)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome " + claims.Username,
		"user":    userPayload{ID: claims.UserID, Username: claims.Username, Role: claims.Role},
	})
}
