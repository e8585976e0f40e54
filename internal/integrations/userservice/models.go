package userservice

// Роли пользователей в UserService
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User модель пользователя из UserService
type User struct {
	ID          int64   `json:"id"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"` // admin | user
	GroupIDs    []int64 `json:"group_ids"`
	IsActive    bool    `json:"is_active"`
}

// IsAdmin returns true if the user has the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
