// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"
	"time"
)

// User is the account view returned by the API.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the server granted the admin role.
func (user *User) IsAdmin() bool {
	return user != nil && user.Role == "admin"
}

// AuthResponse is the body of a successful signup or login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role,omitempty"`
	User    *User  `json:"user"`
}

// SignupRequest is the signup payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup calls POST /auth/signup.
func (client *Client) Signup(ctx context.Context, input SignupRequest) (*AuthResponse, error) {
	var response AuthResponse
	if err := client.Do(ctx, http.MethodPost, "/auth/signup", input, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Login calls POST /auth/login.
func (client *Client) Login(ctx context.Context, input LoginRequest) (*AuthResponse, error) {
	var response AuthResponse
	if err := client.Do(ctx, http.MethodPost, "/auth/login", input, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Me calls GET /auth/me with the current bearer token.
func (client *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := client.Do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
