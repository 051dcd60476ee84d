package constants

// --- РОЛИ ПОЛЬЗОВАТЕЛЕЙ (Совпадает с кодами в БД) ---

type Role string

const (
	RoleProrab    Role = "PRORAB"    // прораб на объекте, создаёт заявки
	RoleSklad     Role = "SKLAD"     // кладовщик
	RoleNachalnik Role = "NACHALNIK" // начальник участка
	RoleFinansist Role = "FINANSIST" // финансист
	RoleSnab      Role = "SNAB"      // снабженец
	RoleAdmin     Role = "ADMIN"
)

var AllRoles = []Role{
	RoleProrab,
	RoleSklad,
	RoleNachalnik,
	RoleFinansist,
	RoleSnab,
	RoleAdmin,
}

func IsValidRole(code string) bool {
	for _, r := range AllRoles {
		if string(r) == code {
			return true
		}
	}
	return false
}
