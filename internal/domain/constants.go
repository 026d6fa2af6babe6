package domain

// Default configuration values
const (
	DefaultMemberDiscountPercent = 15.0
	DefaultMinNoticeHours        = 24
	DefaultRefundPercent         = 100.0
	DefaultWaitlistPriority      = 0
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MinBreakMinutes        = 0
	MaxBreakMinutes        = 120
	MinCapacity            = 1
	MaxCapacity            = 500
	MaxGenerationRangeDays = 92 // one quarter per generation run
	MaxNotesLength         = 500
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveBookingStatuses список статусов, удерживающих место в слоте
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveBookingStatuses список терминальных статусов бронирования
var InactiveBookingStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
