package memberservice

// Profile профиль пользователя из MemberService
type Profile struct {
	UserID     int64  `json:"user_id"`
	FullName   string `json:"full_name"`
	IsMember   bool   `json:"is_member"`
	MemberTier string `json:"member_tier,omitempty"` // basic / premium / vip
}

// ErrorResponse модель ошибки от MemberService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
