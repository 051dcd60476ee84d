package seeders

import (
	"context"
	"log"

	"snab-system/internal/entities"
	"snab-system/internal/repositories"
	"snab-system/pkg/constants"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Fio      string
	Login    string
	Password string
	Role     constants.Role
}

// По одному пользователю на роль; пароли только для стенда.
var usersData = []seedUser{
	{Fio: "Рахимов Фаррух", Login: "prorab", Password: "prorab123", Role: constants.RoleProrab},
	{Fio: "Каримова Зарина", Login: "sklad", Password: "sklad123", Role: constants.RoleSklad},
	{Fio: "Назаров Далер", Login: "nachalnik", Password: "nachalnik123", Role: constants.RoleNachalnik},
	{Fio: "Саидова Мунира", Login: "finansist", Password: "finansist123", Role: constants.RoleFinansist},
	{Fio: "Юсупов Бахтиёр", Login: "snab", Password: "snab123", Role: constants.RoleSnab},
	{Fio: "Администратор Системы", Login: "admin", Password: "admin123", Role: constants.RoleAdmin},
}

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'users'...")

	userRepo := repositories.NewUserRepository(db)
	for _, u := range usersData {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &entities.User{
			Fio:          u.Fio,
			Login:        u.Login,
			PasswordHash: string(hash),
			Role:         u.Role,
		}
		if _, err := userRepo.Create(ctx, user); err != nil {
			log.Printf("Ошибка при вставке пользователя '%s': %v", u.Login, err)
			return err
		}
	}

	log.Println("    - Пользователи успешно проверены/созданы.")
	return nil
}
