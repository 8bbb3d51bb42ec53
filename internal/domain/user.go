package domain

// Роли пользователей магазина.
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// User — пользователь магазина. Не участвует в инвариантах checkout,
// нужен только для входа и привязки заказов.
type User struct {
	ID    string
	Name  string
	Email string
	// PasswordHash — bcrypt-хеш пароля; исходный пароль нигде не хранится.
	PasswordHash string
	Role         string
}
