// Package domain 定义了应用程序中使用的核心数据结构 (数据库模型)。
package domain

import (
	"strings"
	"time"
)

// User 表示应用程序中的用户。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                           // 用户唯一标识符 (主键)
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_users_username;not null" json:"username"` // 用户名，全局唯一
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_users_email;not null" json:"email"`       // 邮箱，全局唯一
	Password  string    `gorm:"type:text;not null" json:"-"`                                    // 存储的是哈希后的密码，永远不返回给客户端
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PublicUser 是返回给客户端的用户视图，不包含任何凭据信息。
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public 返回用户的公开视图。
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// NormalizeUsername 去除用户名首尾空白。
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// NormalizeEmail 去除首尾空白并转为小写，保证查找与唯一索引大小写无关。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
