package sessions

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"Portfolio/internal/models"
)

// Authenticate сверяет логин/пароль с учёткой администратора.
// Сравнение точное и регистрозависимое; при заданном bcrypt-хэше пароль проверяется по нему.
func Authenticate(admin models.Administrator, login, password string) bool {
	if !admin.Configured() {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(login), []byte(admin.Login)) != 1 {
		return false
	}
	if admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
}
