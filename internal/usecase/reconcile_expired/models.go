package reconcile_expired

import "time"

// Response итог прохода реконсилера
type Response struct {
	Now       time.Time // Момент, относительно которого брони считались истекшими
	Reclaimed int       // Завершено броней и возвращено емкости
	Failed    int       // Брони, обработка которых завершилась ошибкой
}
