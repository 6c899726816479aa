// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-reader/internal/platform/middleware"
	requestutil "github.com/taibuivan/yomira-reader/internal/platform/request"
	"github.com/taibuivan/yomira-reader/internal/platform/respond"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements account-related HTTP endpoints.
type Handler struct {
	authService *Service
	users       UserRepository
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service, users: service.userRepository}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and signs it in.
//   - POST /signin   : Authenticates and returns a JWT.
//   - GET  /me       : Returns the signed-in account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/signin", handler.signIn)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

type signInRequest struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

/*
POST /api/v1/auth/register

Description: Creates an account from a username, an email and the SHA-256
digest of the password, then signs it in.

Request:
  - Body: registerRequest

Response:
  - 201: AuthSession
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: email or username already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 32).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPasswordHash, input.PasswordHash).
		SHA256Hex(FieldPasswordHash, input.PasswordHash)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
POST /api/v1/auth/signin

Request:
  - Body: signInRequest

Response:
  - 200: AuthSession
  - 401: UNAUTHORIZED: invalid credentials
  - 403: BANNED: the account is under an active ban
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPasswordHash, input.PasswordHash)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignIn(request.Context(), SignInInput{
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// GET /api/v1/auth/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.users.FindByID(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
