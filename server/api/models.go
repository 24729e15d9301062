package api

import (
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type CalculationRequest struct {
	Expression string `json:"expression"`
	Dialect    string `json:"dialect,omitempty"`
}

type CalculationModel struct {
	URI        string `json:"uri,omitempty"`
	ID         string `json:"id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Expression string `json:"expression"`
	Dialect    string `json:"dialect"`
	Result     int    `json:"result"`
	Created    string `json:"created,omitempty"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Engine string `json:"engine"`
	} `json:"version"`
}

// formatTime gives the RFC3339 form of t, or "" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func userModelOf(u dao.User) UserModel {
	return UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        formatTime(u.Created),
		Modified:       formatTime(u.Modified),
		LastLogoutTime: formatTime(u.LastLogoutTime),
		LastLoginTime:  formatTime(u.LastLoginTime),
	}
}

// calculationModelOf converts c. Unsaved calculations have no ID, URI, or
// owner in the model.
func calculationModelOf(c dao.Calculation) CalculationModel {
	m := CalculationModel{
		Expression: c.Expression,
		Dialect:    c.Dialect,
		Result:     c.Result,
		Created:    formatTime(c.Created),
	}
	if c.ID != uuid.Nil {
		m.ID = c.ID.String()
		m.URI = PathPrefix + "/calculations/" + c.ID.String()
		m.UserID = c.UserID.String()
	}
	return m
}
