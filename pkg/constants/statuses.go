package constants

// --- СТАТУСЫ ЗАЯВОК НА СНАБЖЕНИЕ (Совпадает с кодами в БД) ---

type Status string

const (
	StatusNovaya             Status = "NOVAYA"
	StatusSkladReview        Status = "SKLAD_REVIEW"
	StatusSkladPartial       Status = "SKLAD_PARTIAL"
	StatusNachalnikReview    Status = "NACHALNIK_REVIEW"
	StatusNachalnikApproved  Status = "NACHALNIK_APPROVED"
	StatusFinansistReview    Status = "FINANSIST_REVIEW"
	StatusFinansistApproved  Status = "FINANSIST_APPROVED"
	StatusSnabProcess        Status = "SNAB_PROCESS"
	StatusZakupleno          Status = "ZAKUPLENO"
	StatusVPuti              Status = "V_PUTI"
	StatusVydano             Status = "VYDANO"
	StatusPolucheno          Status = "POLUCHENO"
	StatusOtkloneno          Status = "OTKLONENO"
)

var AllStatuses = []Status{
	StatusNovaya,
	StatusSkladReview,
	StatusSkladPartial,
	StatusNachalnikReview,
	StatusNachalnikApproved,
	StatusFinansistReview,
	StatusFinansistApproved,
	StatusSnabProcess,
	StatusZakupleno,
	StatusVPuti,
	StatusVydano,
	StatusPolucheno,
	StatusOtkloneno,
}

// Финальные статусы: из них переходов больше нет.
var FinalStatuses = []Status{
	StatusPolucheno,
	StatusOtkloneno,
}

func IsFinalStatus(s Status) bool {
	for _, f := range FinalStatuses {
		if s == f {
			return true
		}
	}
	return false
}

func IsValidStatus(code string) bool {
	for _, s := range AllStatuses {
		if string(s) == code {
			return true
		}
	}
	return false
}
