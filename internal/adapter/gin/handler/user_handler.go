package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"user-store-service/internal/usecase/user"
	pkgerrors "user-store-service/pkg/errors"
	"user-store-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Members that are not strings are treated as absent.
type CreateUserRequest struct {
	Name  string
	Email string
	Role  string
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Absent or non-string members stay nil; any id in the body is ignored.
type UpdateUserRequest struct {
	Name  *string
	Email *string
	Role  *string
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DeleteUserResponse represents the HTTP response for a deleted user
type DeleteUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	errUserIDRequired = pkgerrors.NewValidationError("id", user.MsgUserIDRequired)
	errUserNotFound   = pkgerrors.NewNotFoundError("user", user.MsgUserNotFound)
)

// GetUsers handles GET /users and GET /users?id=N
func (h *UserHandler) GetUsers(c *gin.Context) {
	if _, ok := queryID(c); !ok {
		h.listUsers(c)
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

func (h *UserHandler) listUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	req := parseCreateRequest(readBody(c, h.log))

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp))
}

// UpdateUser handles PUT /users?id=N
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	req := parseUpdateRequest(readBody(c, h.log))

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteUser handles DELETE /users?id=N
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteUserResponse{
		Message: resp.Message,
		User:    toResponse(&resp.User),
	})
}

// NotFound answers paths other than /users
func (h *UserHandler) NotFound(c *gin.Context) {
	h.handleError(c, pkgerrors.ErrNotFound)
}

// MethodNotAllowed answers unsupported methods on /users
func (h *UserHandler) MethodNotAllowed(c *gin.Context) {
	h.handleError(c, pkgerrors.ErrMethodNotAllowed)
}

// queryID returns the id query parameter. An empty value counts as absent.
func queryID(c *gin.Context) (string, bool) {
	raw, ok := c.GetQuery("id")
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// parseID reads a required id. A value that is not an integer cannot match any user.
func parseID(c *gin.Context) (int64, error) {
	raw, ok := queryID(c)
	if !ok {
		return 0, errUserIDRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errUserNotFound
	}
	return id, nil
}

// requestBody holds the top-level members of a JSON object body.
// Members are decoded one by one so a wrong-typed field does not drop the others.
type requestBody map[string]json.RawMessage

// readBody parses the request body as a JSON object. An empty, unreadable or
// malformed body, or one that is not an object, yields an empty requestBody.
func readBody(c *gin.Context, log *zap.Logger) requestBody {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		return requestBody{}
	}

	var body requestBody
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		logger.WithContext(c.Request.Context(), log).Debug("malformed request body, using empty object", zap.Error(err))
		return requestBody{}
	}
	return body
}

// String returns the member key when it is a JSON string, nil otherwise.
func (b requestBody) String(key string) *string {
	raw, ok := b[key]
	if !ok {
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil || string(raw) == "null" {
		return nil
	}
	return &v
}

func parseCreateRequest(b requestBody) CreateUserRequest {
	var req CreateUserRequest
	if v := b.String("name"); v != nil {
		req.Name = *v
	}
	if v := b.String("email"); v != nil {
		req.Email = *v
	}
	if v := b.String("role"); v != nil {
		req.Role = *v
	}
	return req
}

func parseUpdateRequest(b requestBody) UpdateUserRequest {
	return UpdateUserRequest{
		Name:  b.String("name"),
		Email: b.String("email"),
		Role:  b.String("role"),
	}
}

func toResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := pkgerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context(), h.log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(status, ErrorResponse{
		Error: pkgerrors.PublicMessage(err),
	})
}
