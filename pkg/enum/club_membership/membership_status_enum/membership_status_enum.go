package membership_status_enum

const (
	PENDING  = "PENDING"
	APPROVED = "APPROVED"
	REJECTED = "REJECTED"
	// NONE 仅用于查询成员状态时表示"没有任何记录"，不会入库
	NONE = "NONE"
)
