package types

// Filter — разобранные параметры списочных запросов.
type Filter struct {
	Filter         map[string]interface{}
	Sort           map[string]string
	Search         string
	Limit          int
	Offset         int
	Page           int
	WithPagination bool
}
