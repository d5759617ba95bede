package models

// Administrator — единственная учётка администратора из конфигурации.
// Если задан PasswordHash (bcrypt), открытый Password игнорируется.
type Administrator struct {
	Login        string
	Password     string
	PasswordHash string
}

// Configured — без логина вход невозможен в принципе.
func (a Administrator) Configured() bool {
	return a.Login != "" && (a.Password != "" || a.PasswordHash != "")
}
