// internal/authz/permissions.go
package authz

import "snab-system/pkg/constants"

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Заявки (Requests)
	RequestsCreate         = "requests:create"
	RequestsViewAll        = "requests:view:all"
	RequestsViewOwn        = "requests:view:own"
	RequestsViewFinancials = "requests:view:financials"
	RequestsSpecUpdate     = "requests:specification:update"
	RequestsFinanceUpdate  = "requests:financials:update"
	RequestsSplit          = "requests:split"
	RequestsForceDelete    = "requests:force_delete"

	// Склад (Warehouse)
	WarehouseStockManage = "warehouse:stock:manage"

	// Закупки (Purchasing)
	PurchaseOrdersCreate = "purchase_orders:create"

	// Файлы и счета
	AttachmentsCreate = "attachments:create"
	InvoicesDownload  = "invoices:download"

	// Пользователи (Users)
	UsersManage = "users:manage"
)

// rolePermissions — статическая матрица "роль -> разрешенные действия".
// ADMIN в матрице не перечислен: ему разрешено всё (см. engine.go).
var rolePermissions = map[constants.Role]map[string]struct{}{
	constants.RoleProrab: grants(
		RequestsCreate,
		RequestsViewOwn,
	),
	constants.RoleSklad: grants(
		RequestsViewAll,
		WarehouseStockManage,
		RequestsSplit,
	),
	constants.RoleNachalnik: grants(
		RequestsViewAll,
		RequestsViewFinancials,
		RequestsSpecUpdate,
	),
	constants.RoleFinansist: grants(
		RequestsViewAll,
		RequestsViewFinancials,
		RequestsFinanceUpdate,
		AttachmentsCreate,
		InvoicesDownload,
	),
	constants.RoleSnab: grants(
		RequestsViewAll,
		PurchaseOrdersCreate,
		AttachmentsCreate,
	),
}

func grants(permissions ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		m[p] = struct{}{}
	}
	return m
}
