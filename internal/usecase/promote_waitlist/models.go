package promote_waitlist

// SweepResult итоги одного прохода фонового свипа
type SweepResult struct {
	Scanned  int   // Просмотрено ожидающих записей
	Promoted int   // Успешно переведено в бронирования
	Expired  int64 // Записей с прошедшей датой переведено в expired
}
