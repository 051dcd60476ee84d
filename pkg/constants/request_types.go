package constants

// --- ТИПЫ ЗАЯВОК ---

type RequestType string

const (
	RequestTypeMaterials      RequestType = "MATERIALS"
	RequestTypeTools          RequestType = "TOOLS"
	RequestTypeHeavyEquipment RequestType = "HEAVY_EQUIPMENT"
	RequestTypeServices       RequestType = "SERVICES"
	RequestTypeOther          RequestType = "OTHER"
)

var AllRequestTypes = []RequestType{
	RequestTypeMaterials,
	RequestTypeTools,
	RequestTypeHeavyEquipment,
	RequestTypeServices,
	RequestTypeOther,
}

func IsValidRequestType(code string) bool {
	for _, t := range AllRequestTypes {
		if string(t) == code {
			return true
		}
	}
	return false
}

// --- МАРШРУТЫ СОГЛАСОВАНИЯ ---

type ChainID string

const (
	ChainWarehouseOnly ChainID = "WAREHOUSE_ONLY" // выдача со склада без согласования
	ChainFull          ChainID = "FULL"           // склад -> начальник -> закупка
	ChainPurchaseOnly  ChainID = "PURCHASE_ONLY"  // прямая закупка снабженцем
	ChainFullFinance   ChainID = "FULL_FINANCE"   // полный маршрут с финансистом
	ChainFinanceOnly   ChainID = "FINANCE_ONLY"   // только финансовое согласование
)

var AllChains = []ChainID{
	ChainWarehouseOnly,
	ChainFull,
	ChainPurchaseOnly,
	ChainFullFinance,
	ChainFinanceOnly,
}

func IsValidChainID(code string) bool {
	for _, c := range AllChains {
		if string(c) == code {
			return true
		}
	}
	return false
}
