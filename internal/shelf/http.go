// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package shelf provides the HTTP interface for users and their lists.

# Routing Strategy

  - Registry: GET and POST /users.
  - Lists: GET and POST /users/{username}/manga (full replace on POST).
  - Aggregates: GET /users/{username}/stats.

Bodies are bare JSON values; errors use the shared error envelope.
*/
package shelf

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangatrack/internal/library"
	requestutil "github.com/taibuivan/mangatrack/internal/platform/request"
	"github.com/taibuivan/mangatrack/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the shelf domain.
type Handler struct {
	service *Service
}

// NewHandler constructs a new shelf [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with user and list endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listUsers)
	router.Post("/", handler.createUser)

	router.Route("/{username}", func(user chi.Router) {
		user.Get("/manga", handler.getList)
		user.Post("/manga", handler.saveList)
		user.Get("/stats", handler.getStats)
	})

	return router
}

// # Registry Endpoints

/*
GET /api/users.

Response:
  - 200: []string: Usernames in creation order
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.service.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

/*
POST /api/users.

Request (Body):
  - username: string

Response:
  - 200: CreateUserResult: Registered (normalized) username
  - 400: ErrInvalidJSON/Validation: Missing or malformed username
  - 409: Conflict: Username already exists
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input CreateUserInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username, err := handler.service.CreateUser(request.Context(), input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, CreateUserResult{Success: true, Username: username})
}

// # List Endpoints

/*
GET /api/users/{username}/manga.

Response:
  - 200: []Item: The stored list, empty for unknown users
*/
func (handler *Handler) getList(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.GetList(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
POST /api/users/{username}/manga.

Request (Body):
  - []Item: Replacement list (null stores an empty list)

Response:
  - 200: SaveListResult
  - 400: ErrInvalidJSON: Body is not a list of items
*/
func (handler *Handler) saveList(writer http.ResponseWriter, request *http.Request) {
	var items []library.Item
	if err := requestutil.DecodeJSON(request, &items); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SaveList(request.Context(), requestutil.Param(request, "username"), items); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, SaveListResult{Success: true})
}

/*
GET /api/users/{username}/stats.

Response:
  - 200: Stats: Counts per status and the formatted average rating
*/
func (handler *Handler) getStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.Stats(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
