package handler

import (
	"time"

	"rollcall/internal/identity"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	RegNo    string `json:"regNo"`
	Program  string `json:"program"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	RegNo     string    `json:"regNo,omitempty"`
	Program   string    `json:"program,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func fromUser(user *identity.User) userResponse {
	return userResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		RegNo:     user.RegNo,
		Program:   user.Program,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
