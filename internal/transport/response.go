package transport

import "github.com/studenthub/backend/internal/models"

// Every response carries a success flag; error responses add a
// human-readable message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg}
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type UserResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type UsersResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Users   []models.User `json:"users"`
}

type StudentResponse struct {
	Success bool            `json:"success"`
	Student *models.Student `json:"student"`
}

type StudentsResponse struct {
	Success  bool             `json:"success"`
	Count    int              `json:"count"`
	Students []models.Student `json:"students"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
